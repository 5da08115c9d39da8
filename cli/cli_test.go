package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestRun(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))

	prog := filepath.Join(t.TempDir(), "hello.js")
	if err := os.WriteFile(prog, []byte("let who = 'world';\nconsole.log(`hello ${who}`);\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default command", []string{prog}, "hello world\n"},
		{"run", []string{"--log-level=warn", "run", prog}, "hello world\n"},
		{"tokens", []string{"tokens", "--no-trivia", prog}, `"who"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			err := run(t.Context(),
				func(code int) { t.Fatalf("exit(%d): %s", code, stderr.String()) },
				[]kong.Option{kong.Writers(&stdout, &stderr)},
				tt.args...,
			)
			if err != nil {
				t.Fatalf("run(%v): %v", tt.args, err)
			}

			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("stdout = %q, want it to contain %q", stdout.String(), tt.want)
			}
		})
	}
}
