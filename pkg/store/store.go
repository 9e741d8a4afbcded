// Package store implements the catalog store on top of a bbolt database.
package store

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/Solvosoft/fletbatteries/pkg/logutil"
	"github.com/Solvosoft/fletbatteries/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

// Names of top-level buckets.
const (
	bucketCollections = "collections"
	bucketMeta        = "meta"
)

// Names of the buckets nested in each collection bucket.
const (
	bucketEntries = "entries"
	bucketIDs     = "ids"
)

// Functions run in one transaction when the database is opened.
var initDB = map[string](func(*bolt.Tx) error){}

// DBStore is the permanent storage backend of the catalog.
type DBStore interface {
	storedefs.Store
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

// NewStore opens the database at the given path, creating it if needed.
func NewStore(dbname string) (DBStore, error) {
	db, err := bolt.Open(dbname, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return NewStoreFromDB(db)
}

// NewStoreFromDB creates a new Store from a bbolt database. The Store takes
// ownership of the database handle.
func NewStoreFromDB(db *bolt.DB) (DBStore, error) {
	logger.Println("initializing store")
	defer logger.Println("initialized store")
	st := &dbStore{db}

	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// Close closes the database.
func (s *dbStore) Close() error {
	return s.db.Close()
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
