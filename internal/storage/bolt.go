package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("streamlist")

// BoltStore persists values in a single bbolt bucket.
type BoltStore struct {
	db     *bolt.DB
	logger *logrus.Logger
}

// NewBoltStore opens (creating if needed) the database file at path.
func NewBoltStore(path string, logger *logrus.Logger) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltStore{db: db, logger: logger}, nil
}

// Close closes the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Load reads and decodes the value under key into dest. Missing or corrupt
// values report false and leave dest untouched.
func (s *BoltStore) Load(key string, dest interface{}) bool {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v != nil {
			raw = append(raw, v...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		// Treat corrupt stored data like an absent key.
		s.logger.WithError(err).WithField("key", key).Warn("Discarding corrupt stored value")
		return false
	}

	return true
}

// Save encodes value as JSON and writes it under key. Failures are logged
// and swallowed.
func (s *BoltStore) Save(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to encode value for persistence")
		return
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), data)
	})
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to persist value")
	}
}

// Remove deletes the value under key. Failures are logged and swallowed.
func (s *BoltStore) Remove(key string) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to remove persisted value")
	}
}

// Snapshot writes a consistent copy of the database to path.
func (s *BoltStore) Snapshot(path string) error {
	tmp := path + ".tmp"
	err := s.db.View(func(tx *bolt.Tx) error {
		f, err := os.Create(tmp)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = tx.WriteTo(f)
		return err
	})
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to snapshot database: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize snapshot: %w", err)
	}

	return nil
}
