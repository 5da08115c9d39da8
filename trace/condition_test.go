package trace

import (
	"errors"
	"testing"

	"github.com/ardnew/jsviz/lang"
)

func TestCondition(t *testing.T) {
	env := lang.NewEnv()

	define := func(name string, v lang.Value) {
		t.Helper()

		if _, _, err := env.Define(name, lang.DeclLet); err != nil {
			t.Fatal(err)
		}

		if _, err := env.Initialize(name, v); err != nil {
			t.Fatal(err)
		}
	}

	define("total", lang.Number(12))
	define("name", lang.String("ada"))
	define("notes", lang.NewArray(lang.Number(1), lang.Number(2)))

	tests := []struct {
		src  string
		want bool
	}{
		{"total > 10", true},
		{"total > 10 && name == 'bob'", false},
		{"len(notes) == 2", true},
		{"notes[1] == 2", true},
		{"missing == nil", true},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			c, err := Compile(tt.src)
			if err != nil {
				t.Fatal(err)
			}

			got, err := c.Eval(env)
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("Eval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompile_Invalid(t *testing.T) {
	if _, err := Compile("total >"); !errors.Is(err, ErrCondition) {
		t.Errorf("Compile() error = %v, want ErrCondition", err)
	}
}

func TestNative(t *testing.T) {
	obj := lang.NewObject()
	obj.Set("a", lang.NewArray(lang.Bool(true), lang.Null{}))

	got, ok := Native(obj).(map[string]any)
	if !ok {
		t.Fatalf("Native() = %T", Native(obj))
	}

	arr, ok := got["a"].([]any)
	if !ok || len(arr) != 2 || arr[0] != true || arr[1] != nil {
		t.Errorf("Native() = %v", got)
	}

	self := lang.NewArray()
	self.Elems = append(self.Elems, self)

	if Native(self) == nil {
		t.Error("self-referencing array was not converted")
	}
}
