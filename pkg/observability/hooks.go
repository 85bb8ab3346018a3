// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about store commits, canvas gestures, cache operations, and
// API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCommitHooks(&myCommitHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Commit().OnCommitStart(ctx, boardID, itemID, op)
//	// ... talk to the store ...
//	observability.Commit().OnCommitComplete(ctx, boardID, itemID, op, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Commit Hooks
// =============================================================================

// CommitHooks receives events from the persistence coordinator.
type CommitHooks interface {
	// OnCommitStart records a commit leaving for the store.
	OnCommitStart(ctx context.Context, boardID, itemID, op string)

	// OnCommitComplete records a commit's outcome, success or failure.
	OnCommitComplete(ctx context.Context, boardID, itemID, op string, duration time.Duration, err error)

	// OnRollback records an optimistic mutation being undone after its
	// commit failed.
	OnRollback(ctx context.Context, boardID, itemID, op string)
}

// =============================================================================
// Gesture Hooks
// =============================================================================

// GestureHooks receives events from canvas interaction gestures.
type GestureHooks interface {
	// OnGestureEnd records a completed gesture (drag, resize, stroke) and
	// how many items it touched. Cancelled gestures report zero items.
	OnGestureEnd(kind string, itemCount int, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCommitHooks is a no-op implementation of CommitHooks.
type NoopCommitHooks struct{}

func (NoopCommitHooks) OnCommitStart(context.Context, string, string, string) {}
func (NoopCommitHooks) OnCommitComplete(context.Context, string, string, string, time.Duration, error) {
}
func (NoopCommitHooks) OnRollback(context.Context, string, string, string) {}

// NoopGestureHooks is a no-op implementation of GestureHooks.
type NoopGestureHooks struct{}

func (NoopGestureHooks) OnGestureEnd(string, int, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	commitHooks  CommitHooks  = NoopCommitHooks{}
	gestureHooks GestureHooks = NoopGestureHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetCommitHooks registers custom commit hooks.
// This should be called once at application startup before any store operations.
func SetCommitHooks(h CommitHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		commitHooks = h
	}
}

// SetGestureHooks registers custom gesture hooks.
// This should be called once at application startup before any canvas operations.
func SetGestureHooks(h GestureHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		gestureHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Commit returns the registered commit hooks.
func Commit() CommitHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return commitHooks
}

// Gesture returns the registered gesture hooks.
func Gesture() GestureHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return gestureHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	commitHooks = NoopCommitHooks{}
	gestureHooks = NoopGestureHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
