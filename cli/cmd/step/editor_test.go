package step

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ardnew/jsviz/log"
)

// fakeEditor installs an $EDITOR that overwrites its argument with content.
func fakeEditor(t *testing.T, content string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("editor script requires a POSIX shell")
	}

	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "body.js"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	script := filepath.Join(dir, "editor.sh")
	body := "#!/bin/sh\ncat '" + filepath.Join(dir, "body.js") + "' > \"$1\"\n"

	if err := os.WriteFile(script, []byte(body), 0o700); err != nil {
		t.Fatal(err)
	}

	t.Setenv("EDITOR", script)
}

func TestEditSourceCommand(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		input      string
		wantEdited string
		wantErr    error
	}{
		{"valid", "let a = 2;\n", "", "let a = 2;\n", nil},
		{"cleared", "   \n", "", "", nil},
		{"declined", "let = ;\n", "n\n", "", ErrEditDeclined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeEditor(t, tt.content)

			path := filepath.Join(t.TempDir(), "prog.js")
			if err := os.WriteFile(path, []byte("let a = 1;\n"), 0o600); err != nil {
				t.Fatal(err)
			}

			ctx := t.Context()
			cmd := &editSourceCommand{
				source:  "let a = 1;\n",
				path:    path,
				ctxFunc: func() context.Context { return ctx },
				logger:  log.Logger{},
			}

			var stderr strings.Builder

			cmd.SetStdin(strings.NewReader(tt.input))
			cmd.SetStdout(io.Discard)
			cmd.SetStderr(&stderr)

			err := cmd.Run()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}

			if cmd.edited != tt.wantEdited {
				t.Errorf("edited = %q, want %q", cmd.edited, tt.wantEdited)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}

			want := "let a = 1;\n"
			if tt.wantEdited != "" {
				want = tt.wantEdited
			}

			if string(data) != want {
				t.Errorf("file = %q, want %q", data, want)
			}

			if tt.wantErr != nil && !strings.Contains(stderr.String(), "parse error") {
				t.Errorf("stderr = %q", stderr.String())
			}
		})
	}
}
