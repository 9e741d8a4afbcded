package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/Solvosoft/fletbatteries/pkg/selectbox"
	"github.com/Solvosoft/fletbatteries/pkg/store/storedefs"
)

func init() {
	initDB["initialize collections table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCollections))
		return err
	}
}

// Returns the bucket of a collection, or ErrNoCollection.
func collectionBucket(tx *bolt.Tx, collection string) (*bolt.Bucket, error) {
	b := tx.Bucket([]byte(bucketCollections)).Bucket([]byte(collection))
	if b == nil {
		return nil, fmt.Errorf("%w: %s", storedefs.ErrNoCollection, collection)
	}
	return b, nil
}

// PutEntry adds an entry to a collection, or replaces the entry with the same
// id keeping its position.
func (s *dbStore) PutEntry(collection string, e storedefs.Entry) (int, error) {
	if e.ID == "" {
		return 0, fmt.Errorf("%w: empty id", selectbox.ErrMalformedOption)
	}
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		c, err := tx.Bucket([]byte(bucketCollections)).CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return err
		}
		entries, err := c.CreateBucketIfNotExists([]byte(bucketEntries))
		if err != nil {
			return err
		}
		ids, err := c.CreateBucketIfNotExists([]byte(bucketIDs))
		if err != nil {
			return err
		}
		if k := ids.Get([]byte(e.ID)); k != nil {
			seq = unmarshalSeq(k)
		} else {
			seq, err = entries.NextSequence()
			if err != nil {
				return err
			}
			if err := ids.Put([]byte(e.ID), marshalSeq(seq)); err != nil {
				return err
			}
		}
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		return entries.Put(marshalSeq(seq), data)
	})
	return int(seq), err
}

// DelEntry deletes an entry from a collection.
func (s *dbStore) DelEntry(collection, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		c, err := collectionBucket(tx, collection)
		if err != nil {
			return err
		}
		ids := c.Bucket([]byte(bucketIDs))
		k := ids.Get([]byte(id))
		if k == nil {
			return storedefs.ErrNoEntry
		}
		if err := c.Bucket([]byte(bucketEntries)).Delete(k); err != nil {
			return err
		}
		return ids.Delete([]byte(id))
	})
}

// Entry queries the entry of a collection with the given id.
func (s *dbStore) Entry(collection, id string) (storedefs.Entry, error) {
	var e storedefs.Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		c, err := collectionBucket(tx, collection)
		if err != nil {
			return err
		}
		k := c.Bucket([]byte(bucketIDs)).Get([]byte(id))
		if k == nil {
			return storedefs.ErrNoEntry
		}
		e, err = unmarshalEntry(k, c.Bucket([]byte(bucketEntries)).Get(k))
		return err
	})
	return e, err
}

func unmarshalEntry(k, v []byte) (storedefs.Entry, error) {
	var e storedefs.Entry
	if err := json.Unmarshal(v, &e); err != nil {
		return e, fmt.Errorf("corrupt entry %d: %w", unmarshalSeq(k), err)
	}
	e.Seq = int(unmarshalSeq(k))
	return e, nil
}

// List returns the entries of a collection in the order they were added,
// keeping those whose text contains the filter after normalization.
func (s *dbStore) List(collection string, q selectbox.Query) (selectbox.Page, error) {
	return s.list(collection, q, func(storedefs.Entry) bool { return true })
}

// ListChildren is like List, keeping only the entries whose parent is one of
// the given ids. Entries without a parent never match, not even an empty id.
func (s *dbStore) ListChildren(collection string, parents []string, q selectbox.Query) (selectbox.Page, error) {
	set := make(map[string]bool, len(parents))
	for _, p := range parents {
		set[p] = true
	}
	return s.list(collection, q, func(e storedefs.Entry) bool { return e.Parent != "" && set[e.Parent] })
}

func (s *dbStore) list(collection string, q selectbox.Query, keep func(storedefs.Entry) bool) (selectbox.Page, error) {
	filter := selectbox.Normalize(q.Filter)
	p := selectbox.Page{Results: []selectbox.Option{}}
	err := s.db.View(func(tx *bolt.Tx) error {
		c, err := collectionBucket(tx, collection)
		if err != nil {
			return err
		}
		cur := c.Bucket([]byte(bucketEntries)).Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			e, err := unmarshalEntry(k, v)
			if err != nil {
				return err
			}
			if !keep(e) || !strings.Contains(selectbox.Normalize(e.Text), filter) {
				continue
			}
			if p.Total >= q.Skip && (q.Limit <= 0 || len(p.Results) < q.Limit) {
				p.Results = append(p.Results, e.Option)
			}
			p.Total++
		}
		return nil
	})
	p.More = q.Skip+len(p.Results) < p.Total
	return p, err
}

// Collections lists the names of all collections.
func (s *dbStore) Collections() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketCollections)).ForEach(func(k, v []byte) error {
			if v == nil {
				names = append(names, string(k))
			}
			return nil
		})
	})
	return names, err
}

// DelCollection deletes a collection with all its entries.
func (s *dbStore) DelCollection(collection string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.Bucket([]byte(bucketCollections)).DeleteBucket([]byte(collection))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return fmt.Errorf("%w: %s", storedefs.ErrNoCollection, collection)
		}
		return err
	})
}
