// Package localmode reports whether the batch runs in local mode, where analysis
// results are kept on the machine instead of being published.
package localmode

import (
	"context"
	"log/slog"

	"github.com/qualitygate/batch/pkg/settings/keys"
)

// BoolProvider resolves a setting to a boolean, applying the setting's default
// when it is absent or malformed. *settings.Settings satisfies it.
type BoolProvider interface {
	GetBool(key keys.SettingKey) bool
}

// Notifier receives the activation notice. *slog.Logger satisfies it.
type Notifier interface {
	Log(ctx context.Context, level slog.Level, msg string, args ...any)
}

// LocalMode holds the local mode setting as it was when the batch bootstrapped.
// It is immutable and safe for concurrent use.
type LocalMode struct {
	enabled  bool
	notifier Notifier
}

// New reads keys.Local from settings once; later changes to the setting are not observed.
// Without a provider local mode is disabled.
func New(settings BoolProvider, notifier Notifier) *LocalMode {
	l := &LocalMode{notifier: notifier}
	if settings != nil {
		l.enabled = settings.GetBool(keys.Local)
	}
	return l
}

func (l *LocalMode) Enabled() bool {
	if l == nil {
		return false
	}
	return l.enabled
}

// Start announces local mode. Every call on an enabled LocalMode logs the notice again.
func (l *LocalMode) Start(ctx context.Context) {
	if !l.Enabled() || l.notifier == nil {
		return
	}

	l.notifier.Log(ctx, slog.LevelInfo,
		"Local Mode",
		"setting", keys.Local,
	)
}
