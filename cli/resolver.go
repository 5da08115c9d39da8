package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] for the YAML configuration file.
//
// Top-level keys name global flags. A key naming a command holds a mapping
// of that command's flags, which takes precedence over the top level:
//
//	log-level: debug
//	run:
//	  trace: json
//	  max_depth: 128
//
// Keys may separate words with hyphens or underscores. Command-line flags
// override config file values. An empty file is an empty configuration.
func resolve(r io.Reader) (kong.Resolver, error) {
	var raw map[string]any

	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, err
	}

	return config(normalize(raw)), nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	key := normalizeKey(flag.Name)

	if parent != nil && parent.Command != nil {
		if section, ok := c[normalizeKey(parent.Command.Name)].(map[string]any); ok {
			if v, ok := section[key]; ok {
				return v, nil
			}
		}
	}

	if v, ok := c[key]; ok {
		if _, section := v.(map[string]any); !section {
			return v, nil
		}
	}

	return nil, nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", "-"))
}

// normalize rewrites keys with [normalizeKey] and converts values to the
// forms kong decodes: numbers become strings, and sequences become a single
// comma-separated string that kong splits for slice flags.
func normalize(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))

	for k, v := range m {
		out[normalizeKey(k)] = normalizeValue(v)
	}

	return out
}

func normalizeValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return normalize(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			out = append(out, scalar(e))
		}

		return strings.Join(out, ",")
	case uint64, int64, int, float64:
		return scalar(v)
	}

	return v
}

func scalar(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	}

	return ""
}
