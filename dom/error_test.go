package dom

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		is      error
		isNot   error
		wantMsg string
	}{
		{
			name:    "sentinel",
			err:     ErrCycle,
			is:      ErrCycle,
			isNot:   ErrNotFound,
			wantMsg: "new child is an ancestor of the parent",
		},
		{
			name:    "wrapf",
			err:     ErrInvalidName.Wrapf("%q", "1a"),
			is:      ErrInvalidName,
			isNot:   ErrInvalidSelector,
			wantMsg: `invalid name: "1a"`,
		},
		{
			name:    "wrap cause",
			err:     ErrInvalidSelector.Wrapf("position %d: %w", 3, io.ErrUnexpectedEOF),
			is:      io.ErrUnexpectedEOF,
			isNot:   ErrCycle,
			wantMsg: "invalid selector: position 3: unexpected EOF",
		},
		{
			name:    "with attrs",
			err:     ErrNotFound.With(slog.String("tag", "li")),
			is:      ErrNotFound,
			isNot:   ErrInvalidName,
			wantMsg: "node to be removed is not a descendant of this node",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.is) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.is)
			}

			if errors.Is(tt.err, tt.isNot) {
				t.Errorf("errors.Is(%v, %v) = true", tt.err, tt.isNot)
			}

			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestError_WrappedTarget(t *testing.T) {
	wrapped := ErrCycle.Wrapf("<a> into <b>")

	if errors.Is(ErrCycle, wrapped) {
		t.Error("a bare sentinel matched a wrapped target")
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrInvalidName.Wrapf("%q", "x y").With(slog.Int("index", 2))

	attrs := err.LogValue().Group()

	got := map[string]string{}
	for _, a := range attrs {
		got[a.Key] = a.Value.String()
	}

	want := map[string]string{
		"error": "invalid name",
		"cause": `"x y"`,
		"index": "2",
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}
