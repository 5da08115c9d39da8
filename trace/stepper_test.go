package trace

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/ardnew/jsviz/lang"
)

const loop = `let s = 0;
for (let i = 0; i < 3; i++) {
  s += i;
}
let done = true;`

// drive runs src under a stepper and answers each pause with next. It
// returns the paused lines and the run error.
func drive(t *testing.T, s *Stepper, src string, next func(cp lang.Checkpoint)) ([]int, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	in := lang.New(lang.WithHost(s))

	done := make(chan error, 1)
	go func() { done <- in.Run(ctx, src) }()

	var lines []int

	for {
		select {
		case cp := <-s.Paused():
			lines = append(lines, cp.Line)
			next(cp)
		case err := <-done:
			return lines, err
		}
	}
}

func TestStepper_Step(t *testing.T) {
	s := NewStepper(nil)

	lines, err := drive(t, s, loop, func(lang.Checkpoint) { s.Step() })
	if err != nil {
		t.Fatal(err)
	}

	if want := []int{1, 2, 3, 3, 3, 5}; !slices.Equal(lines, want) {
		t.Errorf("paused lines = %v, want %v", lines, want)
	}
}

func TestStepper_Breakpoint(t *testing.T) {
	s := NewStepper(nil)
	s.ToggleBreakpoint(5)

	lines, err := drive(t, s, loop, func(lang.Checkpoint) { s.Continue() })
	if err != nil {
		t.Fatal(err)
	}

	if want := []int{1, 5}; !slices.Equal(lines, want) {
		t.Errorf("paused lines = %v, want %v", lines, want)
	}

	if s.ToggleBreakpoint(5) || len(s.Breakpoints()) != 0 {
		t.Error("breakpoint was not cleared")
	}
}

func TestStepper_Condition(t *testing.T) {
	c, err := Compile("i == 2")
	if err != nil {
		t.Fatal(err)
	}

	s := NewStepper(nil)
	s.SetCondition(c)

	var at []any

	lines, err := drive(t, s, loop, func(cp lang.Checkpoint) {
		at = append(at, Vars(cp.Env)["i"])
		s.Continue()
	})
	if err != nil {
		t.Fatal(err)
	}

	if want := []int{1, 3}; !slices.Equal(lines, want) {
		t.Errorf("paused lines = %v, want %v", lines, want)
	}

	if at[1] != 2.0 {
		t.Errorf("paused with i = %v, want 2", at[1])
	}
}

func TestStepper_Stop(t *testing.T) {
	r := NewRecorder()
	s := NewStepper(r)

	_, err := drive(t, s, loop, func(lang.Checkpoint) { s.Stop() })
	if !lang.IsHalted(err) || !errors.Is(err, ErrStopped) {
		t.Fatalf("Run() error = %v, want halted by stop", err)
	}

	if r.Len() == 0 {
		t.Error("wrapped host saw no events")
	}
}
