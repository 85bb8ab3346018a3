// Package server implements the tabula board server: a REST API over any
// store backend, so multiple canvases can share one source of truth.
//
// # Endpoints
//
//	GET    /api/v1/boards                     list board ids
//	GET    /api/v1/boards/{board}             load a board's items
//	POST   /api/v1/boards/{board}/items       create an item
//	PATCH  /api/v1/boards/{board}/items/{id}  apply a partial update
//	DELETE /api/v1/boards/{board}/items/{id}  soft-delete an item
//	GET    /healthz                           liveness probe
//	GET    /metrics                           prometheus metrics
//
// Errors are returned as {"error": ..., "code": ...} with the code taken
// from pkg/errors, so clients can branch without parsing messages.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tabula/pkg/board"
	"tabula/pkg/errors"
	"tabula/pkg/store"
)

// Server serves the board API over a store backend.
type Server struct {
	store   store.Store
	logger  *log.Logger
	metrics *metrics
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a board server over the given store.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{
		store:   st,
		logger:  log.Default(),
		metrics: newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api/v1/boards", func(r chi.Router) {
		r.Get("/", s.handleListBoards)
		r.Route("/{board}", func(r chi.Router) {
			r.Get("/", s.handleGetBoard)
			r.Post("/items", s.handleCreateItem)
			r.Patch("/items/{item}", s.handleUpdateItem)
			r.Delete("/items/{item}", s.handleDeleteItem)
		})
	})
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	s.router = r
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe runs the server on addr until ctx is cancelled, then shuts
// down gracefully, letting in-flight requests finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("board server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down board server")
		return srv.Shutdown(shutdownCtx)
	}
}

// ====== Handlers ======

type boardsResponse struct {
	Boards []string `json:"boards"`
}

type boardResponse struct {
	BoardID string       `json:"board_id"`
	Items   []board.Item `json:"items"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.store.ListBoards(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if boards == nil {
		boards = []string{}
	}
	s.writeJSON(w, http.StatusOK, boardsResponse{Boards: boards})
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "board")
	if err := errors.ValidateBoardID(boardID); err != nil {
		s.writeError(w, r, err)
		return
	}

	items, err := s.store.ListItems(r.Context(), boardID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if items == nil {
		items = []board.Item{}
	}
	s.writeJSON(w, http.StatusOK, boardResponse{BoardID: boardID, Items: items})
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "board")
	if err := errors.ValidateBoardID(boardID); err != nil {
		s.writeError(w, r, err)
		return
	}

	var it board.Item
	if err := decodeStrict(r, &it); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidItem, err, "decode item"))
		return
	}
	if err := validateItem(&it); err != nil {
		s.writeError(w, r, err)
		return
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}

	if err := s.store.CreateItem(r.Context(), boardID, it); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.itemOps.WithLabelValues("create").Inc()
	s.writeJSON(w, http.StatusCreated, it)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	boardID, itemID := chi.URLParam(r, "board"), chi.URLParam(r, "item")
	if err := errors.ValidateBoardID(boardID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateItemID(itemID); err != nil {
		s.writeError(w, r, err)
		return
	}

	var p board.Patch
	if err := decodeStrict(r, &p); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidPatch, err, "decode patch"))
		return
	}
	if err := p.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	it, err := s.store.UpdateItem(r.Context(), boardID, itemID, p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.itemOps.WithLabelValues("update").Inc()
	s.writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	boardID, itemID := chi.URLParam(r, "board"), chi.URLParam(r, "item")
	if err := errors.ValidateBoardID(boardID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateItemID(itemID); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.DeleteItem(r.Context(), boardID, itemID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.itemOps.WithLabelValues("delete").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ====== Validation ======

// validateItem checks an item arriving over the wire: known type, safe id,
// finite geometry.
func validateItem(it *board.Item) error {
	if err := errors.ValidateItemID(it.ID); err != nil {
		return err
	}
	if !it.Type.Valid() {
		return errors.New(errors.ErrCodeInvalidItem, "unknown item type: %q", it.Type)
	}
	checks := []struct {
		name string
		v    float64
	}{
		{"x", it.X},
		{"y", it.Y},
		{"width", it.Width},
		{"height", it.Height},
		{"rotation", it.Rotation},
	}
	for _, c := range checks {
		if err := errors.ValidateFinite(c.name, c.v); err != nil {
			return err
		}
	}
	if it.Width < 0 || it.Height < 0 {
		return errors.New(errors.ErrCodeInvalidItem, "negative item size %gx%g", it.Width, it.Height)
	}
	return nil
}

// decodeStrict decodes a JSON request body, rejecting unknown fields so typos
// in patches fail loudly instead of silently changing nothing.
func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// ====== Responses ======

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// writeError maps store sentinels and coded errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)

	switch {
	case stderrors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
		if code == "" {
			code = errors.ErrCodeNotFound
		}
	case stderrors.Is(err, store.ErrExists):
		status = http.StatusConflict
		code = errors.ErrCodeConflict
	case stderrors.Is(err, store.ErrClosed):
		status = http.StatusServiceUnavailable
		code = errors.ErrCodeStoreUnavailable
	default:
		switch code {
		case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidItem, errors.ErrCodeInvalidBoard,
			errors.ErrCodeInvalidPatch, errors.ErrCodeInvalidFormat:
			status = http.StatusBadRequest
		case errors.ErrCodeNotFound, errors.ErrCodeItemNotFound, errors.ErrCodeBoardNotFound:
			status = http.StatusNotFound
		case errors.ErrCodeConflict:
			status = http.StatusConflict
		case errors.ErrCodeStoreUnavailable:
			status = http.StatusServiceUnavailable
		}
	}

	if status >= 500 {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: string(code)})
}

// ====== Middleware ======

// requestLogger logs one line per request and feeds the metrics histogram.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		s.metrics.observe(r.Method, route, ww.Status(), elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", elapsed.Round(time.Microsecond),
		)
	})
}
