// Package registry replaces dynamic module-path dispatch with a
// capability registry populated once at process start: a Session
// receives the InputSource it needs at construction time rather than
// importing a module by string, and nothing in this gateway uses
// reflection to find a worker or command handler.
package registry

import "context"

// InputSource is the contract an upstream vendor integration (MT02
// today, others later) implements to plug into the gateway.
type InputSource interface {
	// Name identifies the source, matching the key sessions are
	// constructed with.
	Name() string
	// StartWorker runs the source's polling loop until ctx is
	// cancelled.
	StartWorker(ctx context.Context)
	// HandleCommand routes a universal command produced by a session's
	// inbound reader back to this source, e.g. to log or acknowledge
	// it against the vendor API.
	HandleCommand(deviceID, command string)
}

// Registry holds the InputSources wired at process start.
type Registry struct {
	sources map[string]InputSource
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{sources: make(map[string]InputSource)}
}

// Register adds src under its own Name(). Panics on a duplicate name,
// since that can only happen from a programming error at bootstrap.
func (r *Registry) Register(src InputSource) {
	if _, exists := r.sources[src.Name()]; exists {
		panic("registry: input source already registered: " + src.Name())
	}
	r.sources[src.Name()] = src
}

// Get returns the InputSource registered under name, or false if none
// was registered.
func (r *Registry) Get(name string) (InputSource, bool) {
	src, ok := r.sources[name]
	return src, ok
}

// All returns every registered InputSource, for bootstrap to launch
// one worker goroutine per source.
func (r *Registry) All() []InputSource {
	out := make([]InputSource, 0, len(r.sources))
	for _, src := range r.sources {
		out = append(out, src)
	}
	return out
}
