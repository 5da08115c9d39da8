package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/jsviz/log"
)

func ExampleMake() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
	)

	logger.Info("run start", slog.Int("statements", 4))
	// Output: level=INFO msg="run start" statements=4
}
