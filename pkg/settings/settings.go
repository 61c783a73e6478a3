package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/qualitygate/batch/pkg/settings/keys"
	"github.com/qualitygate/batch/pkg/types"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	sourceProperty = "property"
	sourceStore    = "store"
	sourceDefault  = "default"
)

// Settings is responsible for retrieving setting values from the appropriate sources,
// determining precedence, persisting explicitly given settings, and notifying
// observers of changes to stored values.
//
// Precedence, highest first: explicit properties, the settings store, the schema default.
type Settings struct {
	slogger        *slog.Logger
	properties     map[string]string
	store          types.KVStore
	observers      map[types.SettingsChangeObserver][]keys.SettingKey
	observersMutex sync.RWMutex
}

func New(slogger *slog.Logger, store types.KVStore, opts ...Option) *Settings {
	s := &Settings{
		slogger:    slogger.With("component", "settings"),
		properties: make(map[string]string),
		store:      store,
		observers:  make(map[types.SettingsChangeObserver][]keys.SettingKey),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// rawValue looks up the value for key. A nil value means no source provided one.
func (s *Settings) rawValue(key keys.SettingKey) ([]byte, string) {
	if v, ok := s.properties[key.String()]; ok {
		return []byte(v), sourceProperty
	}

	if v := s.getStoreValue(key); v != nil {
		return v, sourceStore
	}

	return nil, sourceDefault
}

// getStoreValue looks for a stored value for the key and returns it.
// If a stored value is not found, or the store cannot be read, nil is returned.
func (s *Settings) getStoreValue(key keys.SettingKey) []byte {
	if s.store == nil {
		return nil
	}

	value, err := s.store.Get([]byte(key))
	if err != nil {
		s.slogger.Log(context.TODO(), slog.LevelDebug,
			"failed to get stored setting",
			"key", key,
			"err", err,
		)
		return nil
	}

	return value
}

// GetString returns the resolved value for key, or its registered default.
func (s *Settings) GetString(key keys.SettingKey) string {
	if s == nil {
		return defaultValue(key)
	}

	value, _ := s.rawValue(key)
	if value == nil {
		return defaultValue(key)
	}

	return string(value)
}

// GetBool returns the resolved boolean for key. Absent, empty or malformed
// values resolve to the registered default; unknown keys default to false.
func (s *Settings) GetBool(key keys.SettingKey) bool {
	defaultBool, err := strconv.ParseBool(defaultValue(key))
	if err != nil {
		defaultBool = false
	}

	if s == nil {
		return defaultBool
	}

	value, source := s.rawValue(key)
	resolved, ok := NewBoolSettingValue(WithDefaultBool(defaultBool)).get(value)
	if !ok {
		s.slogger.Log(context.TODO(), slog.LevelDebug,
			"setting is not a boolean, using default",
			"key", key,
			"value", string(value),
			"source", source,
			"default", defaultBool,
		)
		return resolved
	}

	s.slogger.Log(context.TODO(), slog.LevelDebug,
		"resolved setting",
		"key", key,
		"value", resolved,
		"source", source,
	)

	return resolved
}

// storedValues reads every persisted setting.
func (s *Settings) storedValues() (map[string]string, error) {
	stored := make(map[string]string)
	err := s.store.ForEach(func(k, v []byte) error {
		stored[string(k)] = string(v)
		return nil
	})
	return stored, err
}

// Persist writes the registered settings among properties to the settings store,
// so later runs resolve them without being told again. Unregistered keys are never
// written. Returns the keys whose stored value changed; observers are notified of them.
func (s *Settings) Persist(properties map[string]string) ([]keys.SettingKey, error) {
	if s == nil || s.store == nil {
		return nil, errors.New("settings store is nil")
	}

	stored, err := s.storedValues()
	if err != nil {
		return nil, fmt.Errorf("reading stored settings: %w", err)
	}

	propertyKeys := maps.Keys(properties)
	slices.Sort(propertyKeys)

	var changed []keys.SettingKey
	for _, k := range propertyKeys {
		key := keys.SettingKey(k)
		if _, ok := Lookup(key); !ok {
			s.slogger.Log(context.TODO(), slog.LevelDebug,
				"not persisting unregistered setting",
				"key", key,
			)
			continue
		}

		if current, ok := stored[k]; ok && current == properties[k] {
			continue
		}

		if err := s.store.Set([]byte(k), []byte(properties[k])); err != nil {
			s.notifyObservers(changed...)
			return changed, fmt.Errorf("storing %s: %w", key, err)
		}
		changed = append(changed, key)
	}

	s.notifyObservers(changed...)

	return changed, nil
}

// Reset forgets every persisted setting and returns the keys that were removed.
func (s *Settings) Reset() ([]keys.SettingKey, error) {
	if s == nil || s.store == nil {
		return nil, errors.New("settings store is nil")
	}

	stored, err := s.storedValues()
	if err != nil {
		return nil, fmt.Errorf("reading stored settings: %w", err)
	}

	if err := s.store.DeleteAll(); err != nil {
		return nil, fmt.Errorf("clearing stored settings: %w", err)
	}

	removed := keys.ToSettingKeys(maps.Keys(stored))
	slices.Sort(removed)
	s.notifyObservers(removed...)

	return removed, nil
}

// NumPersisted reports how many settings the store holds.
func (s *Settings) NumPersisted() (int, error) {
	if s == nil || s.store == nil {
		return 0, errors.New("settings store is nil")
	}
	return s.store.NumKeys()
}

func (s *Settings) RegisterChangeObserver(observer types.SettingsChangeObserver, settingKeys ...keys.SettingKey) {
	s.observersMutex.Lock()
	defer s.observersMutex.Unlock()

	s.observers[observer] = append(s.observers[observer], settingKeys...)
}

// notifyObservers informs all observers of the keys that they have changed.
func (s *Settings) notifyObservers(settingKeys ...keys.SettingKey) {
	if len(settingKeys) == 0 {
		return
	}

	s.observersMutex.RLock()
	defer s.observersMutex.RUnlock()

	for observer, observedKeys := range s.observers {
		changedKeys := keys.Intersection(observedKeys, settingKeys)

		if len(changedKeys) > 0 {
			observer.SettingsChanged(changedKeys...)
		}
	}
}
