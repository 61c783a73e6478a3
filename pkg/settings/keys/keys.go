package keys

// SettingKeys are named identifiers corresponding to analysis settings
type SettingKey string

// When adding a new SettingKey:
// 1. Define the SettingKey identifier, and the string key value it corresponds to, in the block below
// 2. Register its default, display name and description in the schema table (pkg/settings/definitions.go)
// 3. Implement tests for any component that reads it.
const (
	Local      SettingKey = "sonar.local"
	ProjectKey SettingKey = "sonar.projectKey" // identifies the analysed project in logs; never persisted
)

func (key SettingKey) String() string {
	return string(key)
}

func ToSettingKeys(s []string) []SettingKey {
	k := make([]SettingKey, len(s))
	for i, v := range s {
		k[i] = SettingKey(v)
	}
	return k
}

// Returns the intersection of SettingKeys; keys which exist in both a and b.
func Intersection(a, b []SettingKey) []SettingKey {
	m := make(map[SettingKey]bool)
	var result []SettingKey

	for _, element := range a {
		m[element] = true
	}

	for _, element := range b {
		if m[element] {
			result = append(result, element)
		}
	}

	return result
}
