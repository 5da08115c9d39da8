// Package log provides a simplified structured logging interface based on
// [log/slog].
//
// Loggers are values. Configuration is applied at creation time with
// functional options and never mutated afterward, so a [Logger] may be
// copied and shared freely between goroutines.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("run start", slog.Int("lines", 12))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// # Zero Value
//
// The zero value of [Logger] discards everything. Packages that accept an
// optional logger store it by value and log unconditionally.
//
// # Package Logger
//
// The package-level functions ([Info], [ErrorContext], ...) write to a default
// logger that the command line reconfigures with [Config].
package log
