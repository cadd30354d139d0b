package execution

import "sync"

// Classify picks the strategy kind. Running inside the container always
// wins, then design mode, then the generic runner.
func Classify(inContainer, designMode bool) Kind {
	switch {
	case inContainer:
		return KindContainerized
	case designMode:
		return KindInteractive
	default:
		return KindGenericRunner
	}
}

// Selector classifies the process once and remembers the answer
type Selector struct {
	once        sync.Once
	inContainer func() bool
	kind        Kind
}

// NewSelector creates a Selector using inContainer as the environment probe
func NewSelector(inContainer func() bool) *Selector {
	return &Selector{inContainer: inContainer}
}

// Select returns the strategy kind; only the first call inspects the environment
func (s *Selector) Select(designMode bool) Kind {
	s.once.Do(func() {
		s.kind = Classify(s.inContainer(), designMode)
	})
	return s.kind
}

// Strategy selects and constructs the strategy for ec
func (s *Selector) Strategy(ec *Context) Strategy {
	return New(ec, s.Select(ec.Settings.DesignMode))
}
