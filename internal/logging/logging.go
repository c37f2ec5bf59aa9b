package logging

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// New builds the root logger for a check run. Output goes to stderr so the
// exit code and any future machine-readable output stay separable.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	noColor := os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stderr.Fd())

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		NoColor:    noColor,
		TimeFormat: "15:04:05",
	})
	return slog.New(handler)
}
