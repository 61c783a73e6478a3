package storageci

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	batchbbolt "github.com/qualitygate/batch/pkg/storage/bbolt"
	"github.com/qualitygate/batch/pkg/storage/inmemory"
	"github.com/qualitygate/batch/pkg/types"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

const (
	dbTestFileName = "test.db"
)

// NewStore returns a store for tests: in-memory on CI, bbolt everywhere else.
func NewStore(t *testing.T, slogger *slog.Logger, bucketName string) (types.KVStore, error) {
	if os.Getenv("CI") == "true" {
		return inmemory.NewStore(), nil
	}

	return batchbbolt.NewStore(context.TODO(), slogger, SetupDB(t), bucketName)
}

// SetupDB is used for creating bbolt databases for testing
func SetupDB(t *testing.T) *bbolt.DB {
	db, err := bbolt.Open(filepath.Join(t.TempDir(), dbTestFileName), 0600, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	return db
}
