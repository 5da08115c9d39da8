package trace

import "github.com/ardnew/jsviz/lang"

// maxNativeDepth bounds conversion of self-referencing arrays and objects.
const maxNativeDepth = 8

// Native converts v to plain Go values: nil, bool, float64, string,
// []any and map[string]any. Functions and document objects become their
// display string.
func Native(v lang.Value) any { return native(v, 0) }

func native(v lang.Value, depth int) any {
	switch v := v.(type) {
	case nil, lang.Undefined, lang.Null:
		return nil
	case lang.Bool:
		return bool(v)
	case lang.Number:
		return float64(v)
	case lang.String:
		return string(v)
	case *lang.Array:
		if depth >= maxNativeDepth {
			return lang.Inspect(v)
		}

		out := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = native(e, depth+1)
		}

		return out
	case *lang.Object:
		if depth >= maxNativeDepth {
			return lang.Inspect(v)
		}

		out := make(map[string]any, len(v.Keys()))
		for _, k := range v.Keys() {
			out[k] = native(v.Get(k), depth+1)
		}

		return out
	}

	return lang.Inspect(v)
}

// Vars converts the bindings visible from env for use as an expression
// environment.
func Vars(env *lang.Env) map[string]any {
	vis := env.Visible()

	out := make(map[string]any, len(vis))
	for name, v := range vis {
		out[name] = Native(v)
	}

	return out
}
