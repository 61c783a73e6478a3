package inmemory

import (
	"errors"
	"sync"
)

var errNilStore = errors.New("store is nil")

// inMemoryKeyValueStore keeps settings for a single run. ForEach visits keys
// in the order they were first set.
type inMemoryKeyValueStore struct {
	mu    sync.RWMutex
	items map[string][]byte
	order []string
}

func NewStore() *inMemoryKeyValueStore {
	return &inMemoryKeyValueStore{
		items: make(map[string][]byte),
	}
}

// Get returns a copy of the stored value, or nil when key is not set.
func (s *inMemoryKeyValueStore) Get(key []byte) ([]byte, error) {
	if s == nil {
		return nil, errNilStore
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneBytes(s.items[string(key)]), nil
}

func (s *inMemoryKeyValueStore) Set(key, value []byte) error {
	if s == nil {
		return errNilStore
	}

	if len(key) == 0 {
		return errors.New("key is blank")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := string(key)
	if _, exists := s.items[k]; !exists {
		s.order = append(s.order, k)
	}
	s.items[k] = cloneBytes(value)

	return nil
}

func (s *inMemoryKeyValueStore) DeleteAll() error {
	if s == nil {
		return errNilStore
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string][]byte)
	s.order = nil

	return nil
}

func (s *inMemoryKeyValueStore) ForEach(fn func(k, v []byte) error) error {
	if s == nil {
		return errNilStore
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, k := range s.order {
		if err := fn([]byte(k), cloneBytes(s.items[k])); err != nil {
			return err
		}
	}

	return nil
}

func (s *inMemoryKeyValueStore) NumKeys() (int, error) {
	if s == nil {
		return 0, errNilStore
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items), nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
