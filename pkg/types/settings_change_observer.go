package types

import "github.com/qualitygate/batch/pkg/settings/keys"

// SettingsChangeObserver is an interface to be notified of changes to persisted settings.
type SettingsChangeObserver interface {
	// SettingsChanged tells the observer that setting changes have occurred.
	SettingsChanged(settingKeys ...keys.SettingKey)
}
