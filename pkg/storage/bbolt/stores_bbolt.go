package batchbbolt

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/qualitygate/batch/pkg/storage"
	"github.com/qualitygate/batch/pkg/types"
	"go.etcd.io/bbolt"
)

const (
	DbFileName  = "batch.db"
	openTimeout = 1 * time.Second
)

// OpenDB opens (creating if needed) the batch database in rootDirectory.
// Another batch process holding the lock makes this fail after openTimeout.
func OpenDB(rootDirectory string) (*bbolt.DB, error) {
	if err := os.MkdirAll(rootDirectory, 0700); err != nil {
		return nil, fmt.Errorf("creating root directory %s: %w", rootDirectory, err)
	}

	dbPath := filepath.Join(rootDirectory, DbFileName)
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db at %s: %w", dbPath, err)
	}

	return db, nil
}

// MakeStores creates all the KVStores used by the batch
func MakeStores(ctx context.Context, slogger *slog.Logger, db *bbolt.DB) (map[storage.Store]types.KVStore, error) {
	stores := make(map[storage.Store]types.KVStore)

	for _, storeName := range storage.AllStores {
		store, err := NewStore(ctx, slogger, db, storeName.String())
		if err != nil {
			return nil, fmt.Errorf("failed to create '%s' KVStore: %w", storeName, err)
		}

		stores[storeName] = store
	}

	return stores, nil
}
