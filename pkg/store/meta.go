package store

import (
	bolt "go.etcd.io/bbolt"

	"github.com/Solvosoft/fletbatteries/pkg/store/storedefs"
)

func init() {
	initDB["initialize metadata table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketMeta))
		return err
	}
}

// Meta gets the value of a metadata key, such as the fixture file the catalog
// was seeded from.
func (s *dbStore) Meta(key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketMeta)).Get([]byte(key))
		if v == nil {
			return storedefs.ErrNoMeta
		}
		value = string(v)
		return nil
	})
	return value, err
}

// SetMeta sets the value of a metadata key.
func (s *dbStore) SetMeta(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketMeta)).Put([]byte(key), []byte(value))
	})
}
