package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
)

type resolverCLI struct {
	LogLevel string `default:"info"`
	Pretty   bool   `default:"true" negatable:""`

	Run struct {
		Trace    string        `default:"none"`
		MaxDepth int           `default:"512"`
		Delay    time.Duration `default:"0s"`
		Break    []int
	} `cmd:""`

	Query struct {
		Count bool
	} `cmd:""`

	Step struct {
		Break []int
		Watch []string
	} `cmd:""`
}

func parseWith(t *testing.T, config string, args ...string) resolverCLI {
	t.Helper()

	path := filepath.Join(t.TempDir(), baseConfig)
	if err := os.WriteFile(path, []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}

	var cli resolverCLI

	parser, err := kong.New(&cli,
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.Configuration(resolve, path),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}

	return cli
}

func TestResolve(t *testing.T) {
	config := strings.Join([]string{
		"log_level: debug",
		"pretty: false",
		"run:",
		"  trace: yaml",
		"  max-depth: 64",
		"  delay: 250ms",
		"  break: [3, 7]",
		"query:",
		"  count: true",
		"step:",
		"  break: [2, 9, 11]",
		"  watch: [total, i]",
	}, "\n")

	t.Run("run", func(t *testing.T) {
		cli := parseWith(t, config, "run")

		if cli.LogLevel != "debug" || cli.Pretty {
			t.Errorf("globals = %q, %v", cli.LogLevel, cli.Pretty)
		}

		if cli.Run.Trace != "yaml" || cli.Run.MaxDepth != 64 {
			t.Errorf("run = %+v", cli.Run)
		}

		if cli.Run.Delay != 250*time.Millisecond {
			t.Errorf("delay = %v", cli.Run.Delay)
		}

		if !slices.Equal(cli.Run.Break, []int{3, 7}) {
			t.Errorf("break = %v", cli.Run.Break)
		}
	})

	t.Run("flags override", func(t *testing.T) {
		cli := parseWith(t, config, "--log-level=warn", "run", "--trace=json")

		if cli.LogLevel != "warn" || cli.Run.Trace != "json" {
			t.Errorf("got %q, %q", cli.LogLevel, cli.Run.Trace)
		}
	})

	t.Run("query", func(t *testing.T) {
		cli := parseWith(t, config, "query")

		if !cli.Query.Count {
			t.Error("count not resolved")
		}
	})
}

func TestResolve_Sequences(t *testing.T) {
	tests := []struct {
		name   string
		config string
		brk    []int
		watch  []string
	}{
		{"flow", "step:\n  break: [2, 9, 11]\n  watch: [total, i]", []int{2, 9, 11}, []string{"total", "i"}},
		{"block", "step:\n  break:\n    - 4\n  watch:\n    - n", []int{4}, []string{"n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli := parseWith(t, tt.config, "step")

			if !slices.Equal(cli.Step.Break, tt.brk) {
				t.Errorf("break = %v, want %v", cli.Step.Break, tt.brk)
			}

			if !slices.Equal(cli.Step.Watch, tt.watch) {
				t.Errorf("watch = %v, want %v", cli.Step.Watch, tt.watch)
			}
		})
	}
}

func TestResolve_Empty(t *testing.T) {
	cli := parseWith(t, "", "run")

	if cli.LogLevel != "info" || cli.Run.MaxDepth != 512 || !cli.Pretty {
		t.Errorf("defaults not kept: %+v", cli)
	}
}

func TestResolve_Invalid(t *testing.T) {
	if _, err := resolve(strings.NewReader("run: [unterminated")); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestNormalize(t *testing.T) {
	got := normalize(map[string]any{
		"Max_Depth": uint64(8),
		"ratio":     0.5,
		"offset":    int64(-2),
		"names":     []any{"a", uint64(1), true},
		"run":       map[string]any{"halt_when": "i > 2"},
	})

	want := map[string]string{
		"max-depth": "8",
		"ratio":     "0.5",
		"offset":    "-2",
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %#v, want %q", k, got[k], v)
		}
	}

	if got["names"] != "a,1,true" {
		t.Errorf("names = %#v", got["names"])
	}

	if run, _ := got["run"].(map[string]any); run["halt-when"] != "i > 2" {
		t.Errorf("run = %#v", got["run"])
	}
}
