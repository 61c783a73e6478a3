package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/qualitygate/batch/pkg/batch"
	"github.com/qualitygate/batch/pkg/bootstrap/localmode"
	"github.com/qualitygate/batch/pkg/log/debuglogger"
	"github.com/qualitygate/batch/pkg/log/multislogger"
	"github.com/qualitygate/batch/pkg/settings"
	"github.com/qualitygate/batch/pkg/settings/keys"
	"github.com/qualitygate/batch/pkg/storage"
	batchbbolt "github.com/qualitygate/batch/pkg/storage/bbolt"
	"github.com/qualitygate/batch/pkg/storage/inmemory"
	"github.com/qualitygate/batch/pkg/types"
)

// bootstrapper holds the components built before analysis begins.
type bootstrapper struct {
	slogger   *multislogger.MultiSlogger
	settings  *settings.Settings
	localMode *localmode.LocalMode
	closers   []io.Closer
}

// newBootstrapper constructs, in order, the logger, the settings store, the
// settings and local mode. Nothing is started.
func newBootstrapper(ctx context.Context, opts *batch.Options, stderr io.Writer) (*bootstrapper, error) {
	b := &bootstrapper{}

	logLevel := new(slog.LevelVar)
	logLevel.Set(slog.LevelInfo)
	if opts.Debug {
		logLevel.Set(slog.LevelDebug)
	}
	b.slogger = multislogger.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	if opts.DebugLogFile != "" {
		handler, closer := debuglogger.New(opts.DebugLogFile)
		b.slogger.AddHandler(handler)
		b.closers = append(b.closers, closer)
	}

	slogger := b.slogger.Logger.With("component", "bootstrap")

	store, err := b.openSettingsStore(ctx, opts)
	if err != nil {
		b.Close()
		return nil, err
	}

	properties := batch.CmdLineProperties(opts)
	b.settings = settings.New(b.slogger.Logger, store, settings.WithProperties(properties))
	b.settings.RegisterChangeObserver(&settingsChangeLogger{slogger: slogger}, registeredKeys()...)

	if opts.ResetSettings {
		if _, err := b.settings.Reset(); err != nil {
			b.Close()
			return nil, fmt.Errorf("resetting persisted settings: %w", err)
		}
	}

	// Explicit properties are remembered for later runs sharing the root directory
	if opts.RootDirectory != "" {
		if _, err := b.settings.Persist(properties); err != nil {
			b.Close()
			return nil, fmt.Errorf("persisting settings: %w", err)
		}
	}

	b.localMode = localmode.New(b.settings, b.slogger.Logger)

	persisted, err := b.settings.NumPersisted()
	if err != nil {
		slogger.Log(ctx, slog.LevelDebug, "could not count persisted settings", "err", err)
	}

	slogger.Log(ctx, slog.LevelDebug,
		"constructed bootstrap components",
		"root_directory", opts.RootDirectory,
		"config_file", opts.ConfigFilePath,
		"persisted_settings", persisted,
	)

	return b, nil
}

// openSettingsStore uses the bbolt database in the root directory when one is
// configured, and an in-memory store otherwise.
func (b *bootstrapper) openSettingsStore(ctx context.Context, opts *batch.Options) (types.KVStore, error) {
	if opts.RootDirectory == "" {
		return inmemory.NewStore(), nil
	}

	db, err := batchbbolt.OpenDB(opts.RootDirectory)
	if err != nil {
		return nil, fmt.Errorf("opening settings database: %w", err)
	}
	b.closers = append(b.closers, db)

	stores, err := batchbbolt.MakeStores(ctx, b.slogger.Logger, db)
	if err != nil {
		return nil, fmt.Errorf("making stores: %w", err)
	}

	return stores[storage.SettingsStore], nil
}

// settingsChangeLogger reports changes to persisted settings. Components that
// already resolved a setting keep their value until the next run.
type settingsChangeLogger struct {
	slogger *slog.Logger
}

func (l *settingsChangeLogger) SettingsChanged(settingKeys ...keys.SettingKey) {
	for _, key := range settingKeys {
		l.slogger.Log(context.TODO(), slog.LevelInfo,
			"persisted setting changed",
			"key", key.String(),
		)
	}
}

func registeredKeys() []keys.SettingKey {
	definitions := settings.Definitions()
	result := make([]keys.SettingKey, 0, len(definitions))
	for _, d := range definitions {
		result = append(result, d.Key)
	}
	return result
}

// Start runs the activation hooks of every component, in construction order.
func (b *bootstrapper) Start(ctx context.Context) {
	b.localMode.Start(ctx)

	b.slogger.Logger.Log(ctx, slog.LevelInfo,
		"bootstrap complete",
		"local_mode", b.localMode.Enabled(),
	)
}

// Close releases resources in reverse order of acquisition.
func (b *bootstrapper) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil

	return errors.Join(errs...)
}

func runBootstrap(ctx context.Context, opts *batch.Options, stderr io.Writer) error {
	b, err := newBootstrapper(ctx, opts, stderr)
	if err != nil {
		return fmt.Errorf("creating bootstrapper: %w", err)
	}
	defer b.Close()

	if projectKey := b.settings.GetString(keys.ProjectKey); projectKey != "" {
		ctx = context.WithValue(ctx, multislogger.ProjectKey, projectKey)
	}

	b.Start(ctx)

	return nil
}
