package pkg

import (
	"errors"
	"os"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "jsviz"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from the VERSION file next to this package.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version() != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version())
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew")
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestError_WrapPreservesSentinel(t *testing.T) {
	cause := errors.New("disk on fire")
	err := ErrReadSource.Wrap(cause)

	if !errors.Is(err, ErrReadSource) {
		t.Error("expected wrapped error to match sentinel")
	}

	if !errors.Is(err, cause) {
		t.Error("expected wrapped error to match cause")
	}

	if errors.Is(err, ErrParse) {
		t.Error("expected wrapped error not to match unrelated sentinel")
	}

	if got, want := err.Error(), "failed to read source: disk on fire"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if len(ErrReadSource) != 1 {
		t.Errorf("sentinel mutated by Wrap: len = %d", len(ErrReadSource))
	}
}

func TestUnwrapErrors_OrdersInnermostFirst(t *testing.T) {
	inner := errors.New("inner")
	outer := MakeError(inner).Wrapf("outer %d", 1)

	chain := UnwrapErrors(outer)
	if len(chain) < 2 {
		t.Fatalf("expected at least 2 errors, got %d", len(chain))
	}

	if chain[0] != inner {
		t.Errorf("expected innermost error first, got %v", chain[0])
	}
}
