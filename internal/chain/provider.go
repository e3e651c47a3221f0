package chain

import (
	"context"
	"sync"
)

// Builder constructs a ready chain. It runs lazily on the first request and
// must not cache partial state: a failed build leaves nothing behind.
type Builder func(ctx context.Context) (*Chain, error)

// Provider owns the process-wide chain singleton. Initialization is guarded
// by a mutex so concurrent first requests wait on a single in-flight build
// instead of racing independent ones. A failed build leaves the provider
// uninitialized; the next call retries from scratch.
type Provider struct {
	mu    sync.Mutex
	build Builder
	chain *Chain
}

func NewProvider(build Builder) *Provider {
	return &Provider{build: build}
}

// Get returns the chain, building it on first use.
func (p *Provider) Get(ctx context.Context) (*Chain, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.chain != nil {
		return p.chain, nil
	}
	built, err := p.build(ctx)
	if err != nil {
		return nil, err
	}
	p.chain = built
	return p.chain, nil
}

// Initialized reports whether a chain has been built successfully.
func (p *Provider) Initialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chain != nil
}
