package debuglogger

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a debug-level JSON handler writing to a rotated file at logFilePath,
// along with the closer for the underlying file.
func New(logFilePath string) (slog.Handler, io.Closer) {
	// This is meant as an always available debug tool. Thus we hardcode these options
	lj := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    3, // megabytes
		Compress:   true,
		MaxBackups: 5,
	}

	return slog.NewJSONHandler(lj, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	}), lj
}
