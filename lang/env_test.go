package lang

import (
	"errors"
	"slices"
	"testing"
)

func TestEnv_Define(t *testing.T) {
	g := NewEnv()

	if _, _, err := g.Define("x", DeclLet); err != nil {
		t.Fatal(err)
	}

	t.Run("shadow in child frame", func(t *testing.T) {
		if _, _, err := g.child("block", false).Define("x", DeclLet); err != nil {
			t.Errorf("Define() error = %v", err)
		}
	})

	t.Run("redeclare in same frame", func(t *testing.T) {
		_, _, err := g.Define("x", DeclConst)

		var rerr *RuntimeError
		if !errors.As(err, &rerr) || rerr.Kind != SyntaxError || !errors.Is(err, ErrRedeclared) {
			t.Errorf("Define() error = %v, want SyntaxError redeclaration", err)
		}
	})

	t.Run("var is idempotent", func(t *testing.T) {
		blk := g.child("block", false)

		b1, f1, err := blk.Define("v", DeclVar)
		if err != nil {
			t.Fatal(err)
		}

		b2, f2, err := blk.Define("v", DeclVar)
		if err != nil {
			t.Fatal(err)
		}

		if b1 != b2 || f1 != g || f2 != g {
			t.Error("var was not hoisted to the function frame exactly once")
		}

		if !b1.Initialized {
			t.Error("var must start initialized to undefined")
		}
	})

	t.Run("var over let", func(t *testing.T) {
		if _, _, err := g.Define("x", DeclVar); !errors.Is(err, ErrRedeclared) {
			t.Errorf("Define() error = %v, want ErrRedeclared", err)
		}
	})
}

func TestEnv_Errors(t *testing.T) {
	g := NewEnv()
	_, _, _ = g.Define("tdz", DeclLet)
	_, _, _ = g.Define("k", DeclConst)
	_, _ = g.Initialize("k", Number(1))

	tests := []struct {
		name string
		do   func() error
		kind ErrorKind
		err  error
	}{
		{"undefined read", func() error { _, _, err := g.Get("nope"); return err }, ReferenceError, ErrNotDefined},
		{"undefined write", func() error { _, err := g.Assign("nope", Null{}); return err }, ReferenceError, ErrNotDefined},
		{"tdz read", func() error { _, _, err := g.Get("tdz"); return err }, ReferenceError, ErrUninitialized},
		{"tdz write", func() error { _, err := g.Assign("tdz", Null{}); return err }, ReferenceError, ErrUninitialized},
		{"const write", func() error { _, err := g.Assign("k", Number(2)); return err }, TypeError, ErrConstAssign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.do()

			var rerr *RuntimeError
			if !errors.As(err, &rerr) {
				t.Fatalf("error = %v, want *RuntimeError", err)
			}

			if rerr.Kind != tt.kind || !errors.Is(err, tt.err) {
				t.Errorf("error = %v (%v), want %v wrapping %v", err, rerr.Kind, tt.kind, tt.err)
			}
		})
	}

	if b, _, _ := g.Get("k"); b.Value != Number(1) {
		t.Errorf("const value = %v after failed write", b.Value)
	}
}

func TestEnv_DisplayPath(t *testing.T) {
	g := NewEnv()
	blk := g.child("block", false)
	fn := blk.child("add", true)
	_, _, _ = fn.Define("a", DeclParam)

	if got, want := fn.DisplayPath(), []string{"global", "add"}; !slices.Equal(got, want) {
		t.Errorf("DisplayPath() = %v, want %v", got, want)
	}

	loop := g.child("for", false)
	_, _, _ = loop.Define("i", DeclLet)
	it := loop.iteration(loop, 1)

	if it.Parent() != g || it.DisplayParent() != loop {
		t.Error("iteration frame parents are wrong")
	}

	if got, want := it.DisplayPath(), []string{"global", "for", "iteration 1"}; !slices.Equal(got, want) {
		t.Errorf("DisplayPath() = %v, want %v", got, want)
	}
}

func TestEnv_Iteration(t *testing.T) {
	g := NewEnv()
	loop := g.child("for", false)
	_, _, _ = loop.Define("i", DeclLet)
	_, _ = loop.Initialize("i", Number(0))

	first := loop.iteration(loop, 1)
	second := first.iteration(loop, 2)

	if _, err := second.Assign("i", Number(1)); err != nil {
		t.Fatal(err)
	}

	a, b := first.Own("i"), second.Own("i")
	if a.Value != Number(0) || b.Value != Number(1) {
		t.Errorf("iteration bindings share storage: %v %v", a.Value, b.Value)
	}

	if a.Address == b.Address {
		t.Errorf("iteration bindings share address %s", a.Address)
	}
}

func TestEnv_Visible(t *testing.T) {
	g := NewEnv()
	_, _, _ = g.Define("x", DeclVar)
	_, _ = g.Initialize("x", Number(1))
	_, _, _ = g.Define("hidden", DeclLet)

	blk := g.child("block", false)
	_, _, _ = blk.Define("x", DeclLet)
	_, _ = blk.Initialize("x", String("inner"))

	vis := blk.Visible()

	if vis["x"] != String("inner") {
		t.Errorf("x = %v, want inner", vis["x"])
	}

	if _, ok := vis["hidden"]; ok {
		t.Error("uninitialized binding is visible")
	}

	names := []string{}
	for _, b := range g.Bindings() {
		names = append(names, b.Name)
	}

	if !slices.Equal(names, []string{"x", "hidden"}) {
		t.Errorf("Bindings() order = %v", names)
	}
}
