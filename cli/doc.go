// Package cli contains the command line interface for jsviz.
//
// # Usage
//
//	jsviz [flags] <command> [args]
//
// Without a command, the arguments are passed to run:
//
//	jsviz examples/closures.js
//	jsviz run --trace=yaml --halt-when 'i == 3' examples/loop.js
//	jsviz step -b 4 --when 'total > 10' examples/sum.js
//	jsviz tokens examples/sum.js
//	jsviz ast examples/sum.js
//	jsviz query 'ul > li.done' page.html
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (config.json is also accepted). Top-level keys name global flags
// and a key naming a command holds that command's flags. Use "jsviz init" to
// write the current global flags to the file.
//
//	log-level: debug
//	run:
//	  trace: json
//	  max-depth: 128
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
