package trace

import (
	"context"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ardnew/jsviz/lang"
)

// action is a driver command delivered to a paused evaluator.
type action int

const (
	actionStep action = iota
	actionContinue
	actionStop
)

// Stepper is a [lang.Host] whose checkpoint blocks until a driver resumes
// it. Every other event is forwarded to the wrapped host, which also sees
// each checkpoint before the stepper pauses.
//
// The evaluator pauses at every checkpoint while stepping. After
// [Stepper.Continue] it runs freely until it reaches a breakpoint line or
// the break condition holds.
type Stepper struct {
	lang.Host

	paused chan lang.Checkpoint
	resume chan action
	free   atomic.Bool
	stop   atomic.Bool

	mu     sync.Mutex
	breaks map[int]bool
	cond   *Condition
}

// NewStepper returns a stepper forwarding events to inner, or to a
// [lang.NopHost] if inner is nil.
func NewStepper(inner lang.Host) *Stepper {
	if inner == nil {
		inner = lang.NopHost{}
	}

	return &Stepper{
		Host:   inner,
		paused: make(chan lang.Checkpoint),
		resume: make(chan action, 1),
		breaks: map[int]bool{},
	}
}

// Paused delivers each checkpoint at which the evaluator is waiting.
func (s *Stepper) Paused() <-chan lang.Checkpoint { return s.paused }

// Step resumes a paused evaluator until the next checkpoint.
func (s *Stepper) Step() { s.send(actionStep) }

// Continue resumes a paused evaluator until a breakpoint.
func (s *Stepper) Continue() { s.send(actionContinue) }

// Stop requests cancellation. A paused evaluator resumes and halts.
func (s *Stepper) Stop() {
	s.stop.Store(true)
	s.send(actionStop)
}

func (s *Stepper) send(a action) {
	select {
	case s.resume <- a:
	default:
	}
}

// ToggleBreakpoint sets or clears a breakpoint at line and reports whether
// it is now set.
func (s *Stepper) ToggleBreakpoint(line int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.breaks[line] {
		delete(s.breaks, line)

		return false
	}

	s.breaks[line] = true

	return true
}

// Breakpoints returns the breakpoint lines in ascending order.
func (s *Stepper) Breakpoints() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Sorted(maps.Keys(s.breaks))
}

// SetCondition sets the break condition checked while running freely. A
// nil condition clears it.
func (s *Stepper) SetCondition(c *Condition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cond = c
}

func (s *Stepper) shouldBreak(cp lang.Checkpoint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.breaks[cp.Line] {
		return true
	}

	if s.cond == nil {
		return false
	}

	ok, err := s.cond.Eval(cp.Env)

	return err == nil && ok
}

// Checkpoint blocks until the driver resumes the evaluator or ctx is done.
func (s *Stepper) Checkpoint(ctx context.Context, cp lang.Checkpoint) error {
	if err := s.Host.Checkpoint(ctx, cp); err != nil {
		return err
	}

	if s.stop.Load() {
		return ErrStopped
	}

	if s.free.Load() && !s.shouldBreak(cp) {
		return nil
	}

	s.free.Store(false)

	// Drop a resume sent while the evaluator was not paused.
	select {
	case <-s.resume:
	default:
	}

	select {
	case s.paused <- cp:
	case <-ctx.Done():
		return context.Cause(ctx)
	}

	select {
	case a := <-s.resume:
		switch a {
		case actionContinue:
			s.free.Store(true)
		case actionStop:
			return ErrStopped
		}

		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// CancellationRequested reports whether [Stepper.Stop] was called or the
// wrapped host requests cancellation.
func (s *Stepper) CancellationRequested() bool {
	return s.stop.Load() || s.Host.CancellationRequested()
}
