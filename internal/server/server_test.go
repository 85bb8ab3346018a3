package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tabula/pkg/board"
	"tabula/pkg/store"
)

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	srv := httptest.NewServer(New(st).Handler())
	t.Cleanup(srv.Close)
	t.Cleanup(func() { st.Close() })
	return srv, st
}

func seedItem(t *testing.T, st store.Store, boardID, itemID string) {
	t.Helper()
	it := board.Item{
		ID:        itemID,
		Type:      board.TypeStickyNote,
		X:         10,
		Y:         20,
		Width:     160,
		Height:    120,
		Content:   "hello",
		CreatedAt: time.Now().UTC(),
	}
	if err := st.CreateItem(context.Background(), boardID, it); err != nil {
		t.Fatalf("seed item: %v", err)
	}
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestListBoards(t *testing.T) {
	srv, st := newTestServer(t)
	seedItem(t, st, "retro", "a")
	seedItem(t, st, "plan", "b")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/boards", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out boardsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Boards) != 2 || out.Boards[0] != "plan" || out.Boards[1] != "retro" {
		t.Errorf("boards = %v, want [plan retro]", out.Boards)
	}
}

func TestGetBoard(t *testing.T) {
	srv, st := newTestServer(t)
	seedItem(t, st, "retro", "a")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/boards/retro", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out boardResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.BoardID != "retro" || len(out.Items) != 1 || out.Items[0].ID != "a" {
		t.Errorf("board = %+v, want retro with item a", out)
	}
}

func TestGetBoardUnknownIsEmpty(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/boards/fresh", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out boardResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Items) != 0 {
		t.Errorf("unknown board has %d items, want 0", len(out.Items))
	}
}

func TestGetBoardRejectsBadID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/boards/..%2Fescape", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCreateItem(t *testing.T) {
	srv, st := newTestServer(t)

	it := board.Item{ID: "a", Type: board.TypeStickyNote, Width: 100, Height: 80}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/boards/retro/items", it)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	items, err := st.ListItems(context.Background(), "retro")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 || items[0].ID != "a" {
		t.Fatalf("stored items = %d, want the created item", len(items))
	}
	if items[0].CreatedAt.IsZero() {
		t.Error("server did not stamp CreatedAt")
	}
}

func TestCreateItemValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	url := srv.URL + "/api/v1/boards/retro/items"

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "unknown type", body: `{"id":"a","type":"blob","width":10,"height":10}`, want: http.StatusBadRequest},
		{name: "missing id", body: `{"type":"sticky_note","width":10,"height":10}`, want: http.StatusBadRequest},
		{name: "unknown field", body: `{"id":"a","type":"sticky_note","wobble":1}`, want: http.StatusBadRequest},
		{name: "negative size", body: `{"id":"a","type":"sticky_note","width":-5,"height":10}`, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(url, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestCreateItemConflict(t *testing.T) {
	srv, st := newTestServer(t)
	seedItem(t, st, "retro", "a")

	it := board.Item{ID: "a", Type: board.TypeStickyNote, Width: 100, Height: 80}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/boards/retro/items", it)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
	var out errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Code != "CONFLICT" {
		t.Errorf("error code = %q, want CONFLICT", out.Code)
	}
}

func TestUpdateItem(t *testing.T) {
	srv, st := newTestServer(t)
	seedItem(t, st, "retro", "a")

	resp := doJSON(t, http.MethodPatch, srv.URL+"/api/v1/boards/retro/items/a", board.MovePatch(50, 60))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var it board.Item
	if err := json.NewDecoder(resp.Body).Decode(&it); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if it.X != 50 || it.Y != 60 {
		t.Errorf("updated position = (%g, %g), want (50, 60)", it.X, it.Y)
	}
	if it.Content != "hello" {
		t.Errorf("patch clobbered content: %q", it.Content)
	}

	items, _ := st.ListItems(context.Background(), "retro")
	if items[0].X != 50 {
		t.Error("update not persisted to store")
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPatch, srv.URL+"/api/v1/boards/retro/items/ghost", board.MovePatch(0, 0))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestUpdateItemRejectsNonFinite(t *testing.T) {
	srv, st := newTestServer(t)
	seedItem(t, st, "retro", "a")

	body := `{"x": 1e999}`
	req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/api/v1/boards/retro/items/a", strings.NewReader(body))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDeleteItem(t *testing.T) {
	srv, st := newTestServer(t)
	seedItem(t, st, "retro", "a")

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/v1/boards/retro/items/a", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	items, _ := st.ListItems(context.Background(), "retro")
	if len(items) != 1 || !items[0].Deleted {
		t.Error("delete did not leave a tombstone")
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/boards/retro/items/ghost", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("delete missing item: status = %d, want 404", resp.StatusCode)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d, want 200", resp.StatusCode)
	}
}

func TestHTTPStoreAgainstServer(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	client := store.NewHTTPStore(srv.URL)
	defer client.Close()

	it := board.Item{ID: "a", Type: board.TypeStickyNote, Width: 100, Height: 80, Content: "round trip"}
	if err := client.CreateItem(ctx, "retro", it); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	updated, err := client.UpdateItem(ctx, "retro", "a", board.MovePatch(5, 7))
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.X != 5 || updated.Y != 7 {
		t.Errorf("updated position = (%g, %g), want (5, 7)", updated.X, updated.Y)
	}
	if err := client.DeleteItem(ctx, "retro", "a"); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	items, err := client.ListItems(ctx, "retro")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 || !items[0].Deleted {
		t.Errorf("items = %+v, want one tombstone", items)
	}
}
