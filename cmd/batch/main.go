package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/kolide/kit/ulid"
	"github.com/qualitygate/batch/pkg/batch"
	"github.com/qualitygate/batch/pkg/log/multislogger"
)

func main() {
	// only used until options are parsed.
	systemSlogger := multislogger.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	opts, err := batch.ParseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		if batch.IsInfoCmd(err) {
			os.Exit(0)
		}
		systemSlogger.Log(context.TODO(), slog.LevelError,
			"could not parse options",
			"err", err,
		)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = context.WithValue(ctx, multislogger.AnalysisIdKey, ulid.New())

	if err := runBootstrap(ctx, opts, os.Stderr); err != nil {
		systemSlogger.Log(ctx, slog.LevelError,
			"bootstrap failed",
			"err", err,
		)
		cancel()
		os.Exit(1)
	}
}
