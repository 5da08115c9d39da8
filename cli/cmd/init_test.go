package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initCLI struct {
	LogLevel  string   `default:"info"`
	LogPretty bool     `default:"true"`
	Tags      []string `default:"a,b"`
	Empty     string
	Secret    string `default:"x" hidden:""`
	PprofMode string `default:"cpu"`

	Init Init `cmd:""`
}

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{"create", false, false, nil},
		{"overwrite with force", true, true, nil},
		{"exists without force", false, true, ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("old: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			var cli initCLI

			parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
			if err != nil {
				t.Fatal(err)
			}

			args := []string{"--log-level=debug", "init"}
			if tt.force {
				args = append(args, "--force")
			}

			ktx, err := parser.Parse(args)
			if err != nil {
				t.Fatal(err)
			}

			err = cli.Init.Run(WithContext(t.Context(), ktx))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("generated config is not YAML: %v\n%s", err, data)
			}

			if got["log-level"] != "debug" || got["log-pretty"] != true {
				t.Errorf("config = %v", got)
			}

			if tags, _ := got["tags"].([]any); len(tags) != 2 {
				t.Errorf("tags = %#v", got["tags"])
			}

			for _, key := range []string{"empty", "secret", "pprof-mode", "help", "old"} {
				if _, ok := got[key]; ok {
					t.Errorf("config contains %q:\n%s", key, data)
				}
			}
		})
	}
}
