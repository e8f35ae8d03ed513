package executor

import (
	"context"
	"sync"

	"codearena/pkg/utils/logger"

	"go.uber.org/zap"
)

// NoBackendMessage is the distinguished error text returned when no
// strategy answered the availability probe.
const NoBackendMessage = "no execution backend available"

// Registry holds strategies in priority order and binds to the first one
// that responds to an availability probe. The binding is cached until
// explicitly invalidated.
type Registry struct {
	mu         sync.Mutex
	strategies []Strategy
	bound      Strategy
}

// NewRegistry creates a registry; registration order is selection order.
func NewRegistry(strategies ...Strategy) *Registry {
	return &Registry{strategies: strategies}
}

// Bind returns the cached strategy or probes candidates sequentially.
// It returns nil when no strategy is available.
func (r *Registry) Bind(ctx context.Context) Strategy {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bound != nil {
		return r.bound
	}
	for _, s := range r.strategies {
		if s.Available(ctx) {
			logger.Info(ctx, "bound execution backend", zap.String("backend", s.Name()))
			r.bound = s
			return s
		}
		logger.Warn(ctx, "execution backend unavailable", zap.String("backend", s.Name()))
	}
	return nil
}

// Invalidate drops the cached binding so the next call probes again.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bound = nil
}

// BoundName returns the cached backend name, or empty when unbound.
func (r *Registry) BoundName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bound == nil {
		return ""
	}
	return r.bound.Name()
}

// Execute routes the request to the bound strategy. When nothing is
// available it fails fast with a runtime_error result instead of
// returning an error.
func (r *Registry) Execute(ctx context.Context, req Request) Result {
	strategy := r.Bind(ctx)
	if strategy == nil {
		return failureResult(StatusRuntimeError, NoBackendMessage)
	}
	return strategy.Execute(ctx, req)
}
