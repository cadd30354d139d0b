package execution

import (
	"context"

	"husky/internal/domain"
	"husky/internal/filter"
)

// Interactive runs for an IDE caller, whose live selection wins over any
// precomputed filter
type Interactive struct {
	ec      *Context
	builder *filter.Builder
}

var _ Strategy = (*Interactive)(nil)

// NewInteractive creates the interactive strategy
func NewInteractive(ec *Context) *Interactive {
	return &Interactive{ec: ec, builder: filter.NewBuilder()}
}

func (s *Interactive) Kind() Kind { return KindInteractive }

// ReconcileFilter keeps legacy and empty filters; anything else is rebuilt
// from the loaded cases
func (s *Interactive) ReconcileFilter(f *filter.Filter, d *domain.DiscoveredTestSet) *filter.Filter {
	if !d.IsDiscoveryMethodCurrent() {
		return f
	}
	if f.IsEmpty() {
		return f
	}
	return checkFilter(s.ec, s.builder, d)
}

func (s *Interactive) Run(ctx context.Context, f *filter.Filter, d *domain.DiscoveredTestSet) (bool, error) {
	return runDefault(ctx, s.ec, s, f, d)
}
