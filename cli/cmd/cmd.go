package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jsviz/dom"
	"github.com/ardnew/jsviz/log"
	"github.com/ardnew/jsviz/pkg"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// streams returns the output writers of the running kong application, or
// the process streams outside of one.
func streams(ctx context.Context) (stdout, stderr io.Writer) {
	stdout, stderr = os.Stdout, os.Stderr

	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Kong != nil {
		if ktx.Stdout != nil {
			stdout = ktx.Stdout
		}

		if ktx.Stderr != nil {
			stderr = ktx.Stderr
		}
	}

	return stdout, stderr
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdin is replaced by tests.
var stdin io.Reader = os.Stdin

// readSource returns the content of path, or of stdin if path is empty or
// [stdinSource].
func readSource(ctx context.Context, path string) (string, error) {
	var (
		data []byte
		err  error
	)

	if path == "" || path == stdinSource {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return "", pkg.ErrReadSource.Wrap(err)
	}

	log.TraceContext(ctx, "source loaded",
		slog.String("path", path),
		slog.Int("bytes", len(data)),
	)

	return string(data), nil
}

// readHTML returns the seed markup in path, or an empty string if path is
// empty. The markup is passed through the sanitizer if requested.
func readHTML(ctx context.Context, path string, sanitize bool) (string, error) {
	if path == "" {
		return "", nil
	}

	src, err := readSource(ctx, path)
	if err != nil {
		return "", err
	}

	if sanitize {
		src = dom.Sanitize(src)
	}

	return src, nil
}
