package types

// Getter is an interface for getting data from a key/value store.
type Getter interface {
	// Get retrieves the value for a key.
	// Returns a nil value if the key does not exist.
	Get(key []byte) (value []byte, err error)
}

// Setter is an interface for setting data in a key/value store.
type Setter interface {
	// Set sets the value for a key.
	// If the key exist then its previous value will be overwritten.
	// Returns an error if the key is blank.
	Set(key, value []byte) error
}

// Clearer is an interface for emptying a key/value store.
type Clearer interface {
	// DeleteAll removes every key in the store.
	DeleteAll() error
}

// Iterator is an interface for iterating data in a key/value store.
type Iterator interface {
	// ForEach executes a function for each key/value pair in a store.
	// If the provided function returns an error then the iteration is stopped and
	// the error is returned to the caller. The provided function must not modify
	// the store; this will result in undefined behavior.
	ForEach(fn func(k, v []byte) error) error
}

// Stats is an interface getting statistical data from a key/value store.
type Stats interface {
	// NumKeys gets number of key/value pairs.
	NumKeys() (int, error)
}

// KVStore is the full set of operations the settings store offers.
type KVStore interface {
	Getter
	Setter
	Clearer
	Iterator
	Stats
}
