package batchbbolt

import (
	"context"
	"fmt"
	"log/slog"

	"go.etcd.io/bbolt"
)

// NoDbError is an error type that represents a nil bbolt database
type NoDbError struct{}

func (e NoDbError) Error() string {
	return "bbolt db is nil"
}

// NoBucketError is an error type that represents a nonexistent bucket
type NoBucketError struct {
	bucketName string
}

func (e NoBucketError) Error() string {
	return fmt.Sprintf("%s bucket does not exist", e.bucketName)
}

func NewNoBucketError(bucketName string) NoBucketError {
	return NoBucketError{bucketName: bucketName}
}

type bboltKeyValueStore struct {
	slogger    *slog.Logger
	db         *bbolt.DB
	bucketName string
}

func NewStore(ctx context.Context, slogger *slog.Logger, db *bbolt.DB, bucketName string) (*bboltKeyValueStore, error) {
	if db == nil {
		return nil, NoDbError{}
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	slogger.Log(ctx, slog.LevelDebug,
		"opened bucket",
		"bucket", bucketName,
	)

	return &bboltKeyValueStore{
		slogger:    slogger.With("bucket", bucketName),
		db:         db,
		bucketName: bucketName,
	}, nil
}

func (s *bboltKeyValueStore) Get(key []byte) (value []byte, err error) {
	if s == nil || s.db == nil {
		return nil, NoDbError{}
	}

	if err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(s.bucketName))
		if b == nil {
			return NewNoBucketError(s.bucketName)
		}

		// bbolt values are only valid for the life of the transaction
		if v := b.Get(key); v != nil {
			value = make([]byte, len(v))
			copy(value, v)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return value, nil
}

func (s *bboltKeyValueStore) Set(key, value []byte) error {
	if s == nil || s.db == nil {
		return NoDbError{}
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(s.bucketName))
		if b == nil {
			return NewNoBucketError(s.bucketName)
		}

		if value != nil {
			if err := b.Put(key, value); err != nil {
				return fmt.Errorf("error setting %s key: %w", string(key), err)
			}
		}

		return nil
	})
}

func (s *bboltKeyValueStore) DeleteAll() error {
	if s == nil || s.db == nil {
		return NoDbError{}
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(s.bucketName)); err != nil {
			return fmt.Errorf("deleting bucket: %w", err)
		}

		if _, err := tx.CreateBucketIfNotExists([]byte(s.bucketName)); err != nil {
			return fmt.Errorf("re-creating bucket: %w", err)
		}

		return nil
	})
}

// ForEach provides a read-only iterator for all key-value pairs stored within s.bucketName
func (s *bboltKeyValueStore) ForEach(fn func(k, v []byte) error) error {
	if s == nil || s.db == nil {
		return NoDbError{}
	}

	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(s.bucketName))
		if b == nil {
			return NewNoBucketError(s.bucketName)
		}

		if err := b.ForEach(fn); err != nil {
			return fmt.Errorf("error iterating over keys in bucket: %w", err)
		}

		return nil
	})
}

func (s *bboltKeyValueStore) NumKeys() (int, error) {
	if s == nil || s.db == nil {
		return 0, NoDbError{}
	}

	var numKeys int
	if err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(s.bucketName))
		if b == nil {
			return NewNoBucketError(s.bucketName)
		}

		numKeys = b.Stats().KeyN
		return nil
	}); err != nil {
		s.slogger.Log(context.TODO(), slog.LevelError,
			"err counting from bucket",
			"err", err,
		)
		return 0, err
	}

	return numKeys, nil
}
