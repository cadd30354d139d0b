package execution

import (
	"context"
	"fmt"

	"husky/internal/domain"
	"husky/internal/filter"
)

// GenericRunner runs for a non-interactive caller outside a container, such
// as a CI job passing its own filter expression
type GenericRunner struct {
	ec      *Context
	builder *filter.Builder
}

var _ Strategy = (*GenericRunner)(nil)

// NewGenericRunner creates the generic runner strategy
func NewGenericRunner(ec *Context) *GenericRunner {
	return &GenericRunner{ec: ec, builder: filter.NewBuilder()}
}

func (s *GenericRunner) Kind() Kind { return KindGenericRunner }

// ReconcileFilter narrows f for current discovery: without a caller
// expression a non-empty filter is rebuilt from the loaded cases, and a caller
// expression with more clauses than AssemblySelectLimit selects nothing
func (s *GenericRunner) ReconcileFilter(f *filter.Filter, d *domain.DiscoveredTestSet) *filter.Filter {
	if !d.IsDiscoveryMethodCurrent() {
		return f
	}

	ext := s.ec.ExternalFilter
	if ext.IsEmpty() {
		if !f.IsEmpty() {
			return checkFilter(s.ec, s.builder, d)
		}
		return f
	}

	if !s.ec.Settings.UseNUnitFilter {
		clauses := ext.ClauseCount()
		if clauses > s.ec.Settings.AssemblySelectLimit {
			s.ec.Log.Debug("Setting filter to no tests found due to filter size",
				"clauses", clauses, "limit", s.ec.Settings.AssemblySelectLimit)
			return filter.NoTestsFound
		}
	}
	return f
}

// Run resolves the caller expression, reconciles, and skips the engine
// entirely when no test case matches
func (s *GenericRunner) Run(ctx context.Context, f *filter.Filter, d *domain.DiscoveredTestSet) (bool, error) {
	f, err := s.checkExternalFilter(f, d)
	if err != nil {
		return false, err
	}
	f = s.ReconcileFilter(f, d)

	if f.IsNoTestsFound() {
		s.ec.Log.Info("Skipping assembly - no matching test cases found", "assembly", d.AssemblyPath)
		return false, nil
	}
	return runDefault(ctx, s.ec, s, f, d)
}

// checkExternalFilter replaces f with the caller expression converted to a
// native filter, when there is one
func (s *GenericRunner) checkExternalFilter(f *filter.Filter, d *domain.DiscoveredTestSet) (*filter.Filter, error) {
	ext := s.ec.ExternalFilter
	if ext.IsEmpty() {
		return f, nil
	}
	s.ec.Log.Debug("Caller filter used", "length", len(ext.Expression), "clauses", ext.ClauseCount())

	var converted *filter.Filter
	var err error
	if d.IsDiscoveryMethodCurrent() && s.ec.Settings.UseNUnitFilter {
		converted, err = s.builder.ConvertExternal(ext)
	} else {
		converted, err = s.builder.ConvertExternalAgainst(ext, d.LoadedTestCases)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid test case filter: %w", err)
	}

	dump := s.ec.dump()
	dump.AddString(fmt.Sprintf("\n\nExternalFilter: %s\n", ext.Expression))
	dump.DumpFilter(converted, "(At Execution (ExternalFilter))")
	return converted, nil
}
