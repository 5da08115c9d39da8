// Package profile provides optional runtime profiling of the interpreter
// through [github.com/pkg/profile].
//
// Profiling must be enabled at build time with the "pprof" build tag:
//
//	go build -tags pprof .
//	jsviz --pprof-mode cpu run examples/loop.js
//	go tool pprof -http=: ~/.cache/jsviz/pprof/cpu.pprof
//
// Without the tag, [Profiler.Start] returns a no-op and [Modes] is empty.
// The tag also registers the [net/http/pprof] handlers on the default mux.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
