package settings

import (
	"strconv"
	"strings"
)

type boolOption func(*boolSettingValue)

func WithDefaultBool(defaultVal bool) boolOption {
	return func(b *boolSettingValue) {
		b.defaultVal = defaultVal
	}
}

type boolSettingValue struct {
	defaultVal bool
}

func NewBoolSettingValue(opts ...boolOption) *boolSettingValue {
	b := &boolSettingValue{}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// get returns the boolean held by rawValue. A nil rawValue means the setting
// was never provided; anything that does not parse as a boolean falls back to
// the default and reports ok=false.
func (b *boolSettingValue) get(rawValue []byte) (value bool, ok bool) {
	if rawValue == nil {
		return b.defaultVal, true
	}

	parsed, err := strconv.ParseBool(strings.TrimSpace(string(rawValue)))
	if err != nil {
		return b.defaultVal, false
	}

	return parsed, true
}
