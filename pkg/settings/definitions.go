package settings

import (
	"github.com/qualitygate/batch/pkg/settings/keys"
)

// Definition describes a setting the batch understands: the value used when nothing
// provides one, and how the setting is presented to users.
type Definition struct {
	Key          keys.SettingKey
	DefaultValue string
	Name         string
	Description  string
}

// definitions is the schema table of every known setting.
var definitions = []Definition{
	{
		Key:          keys.Local,
		DefaultValue: "false",
		Name:         "Local Mode",
		Description:  "Run the analysis without publishing results to the server.",
	},
}

var definitionsByKey = buildDefinitionMap()

func buildDefinitionMap() map[keys.SettingKey]Definition {
	m := make(map[keys.SettingKey]Definition, len(definitions))
	for _, d := range definitions {
		m[d.Key] = d
	}
	return m
}

// Lookup returns the definition registered for key.
func Lookup(key keys.SettingKey) (Definition, bool) {
	d, ok := definitionsByKey[key]
	return d, ok
}

// Definitions returns a copy of the schema table, in registration order.
func Definitions() []Definition {
	result := make([]Definition, len(definitions))
	copy(result, definitions)
	return result
}

// defaultValue returns the registered default for key, or "" for unknown keys.
func defaultValue(key keys.SettingKey) string {
	if d, ok := definitionsByKey[key]; ok {
		return d.DefaultValue
	}
	return ""
}
