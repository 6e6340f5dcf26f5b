package dist

import (
	"sync/atomic"

	"github.com/altalanta/statdesign/domain/core"
	"github.com/altalanta/statdesign/internal/config"
)

// backendHolder gives every Store on the atomic.Value the same concrete
// type; storing Backend values directly would panic as soon as the toggle
// swapped between the two implementations.
type backendHolder struct {
	b Backend
}

// The process-wide default backend. Initialized once from STATDESIGN_EXACT,
// toggled only through EnableExact/DisableExact. Callers needing a pinned
// result pass a Backend explicitly instead of relying on this default.
var defaultBackend atomic.Value // backendHolder

func init() {
	if config.Load().ExactEnabled && Available() {
		defaultBackend.Store(backendHolder{b: Exact{}})
	} else {
		defaultBackend.Store(backendHolder{b: Approximate{}})
	}
}

// Default returns the current process-wide backend.
func Default() Backend {
	return defaultBackend.Load().(backendHolder).b
}

// EnableExact re-probes the exact backend and makes it the default. The
// toggle is idempotent and takes effect for calls issued after it returns.
func EnableExact() error {
	if !Available() {
		return core.NewBackendUnavailable("EnableExact")
	}
	defaultBackend.Store(backendHolder{b: Exact{}})
	return nil
}

// DisableExact reverts the default to the approximate backend.
func DisableExact() {
	defaultBackend.Store(backendHolder{b: Approximate{}})
}

// OrDefault resolves an explicitly pinned backend, falling back to the
// process default when b is nil.
func OrDefault(b Backend) Backend {
	if b != nil {
		return b
	}
	return Default()
}
