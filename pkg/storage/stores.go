package storage

// Stores are named identifiers corresponding to key-value buckets
type Store string

const (
	SettingsStore Store = "settings" // The store used for server-provided analysis settings.
)

// AllStores lists every bucket created when the settings database is opened.
var AllStores = []Store{
	SettingsStore,
}

func (storeType Store) String() string {
	return string(storeType)
}
