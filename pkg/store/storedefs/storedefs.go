// Package storedefs contains definitions of the catalog store API.
//
// It is a separate package so that packages that only depend on the store API
// do not need to depend on the concrete implementation.
package storedefs

import (
	"errors"

	"github.com/Solvosoft/fletbatteries/pkg/selectbox"
)

// Errors returned by Store methods.
var (
	ErrNoEntry      = errors.New("no such entry")
	ErrNoCollection = errors.New("no such collection")
	ErrNoMeta       = errors.New("no such metadata")
)

// Store is an interface satisfied by the catalog storage service. A catalog is
// a set of named collections, each an ordered list of entries.
type Store interface {
	// PutEntry adds an entry at the end of a collection, creating the
	// collection if needed. An entry with the same id is replaced in place.
	// It returns the sequence number of the entry.
	PutEntry(collection string, e Entry) (int, error)
	DelEntry(collection, id string) error
	Entry(collection, id string) (Entry, error)
	// List returns a page of the entries whose text matches q.Filter.
	List(collection string, q selectbox.Query) (selectbox.Page, error)
	// ListChildren is like List, restricted to entries whose parent is one of
	// parents.
	ListChildren(collection string, parents []string, q selectbox.Query) (selectbox.Page, error)
	Collections() ([]string, error)
	DelCollection(collection string) error

	Meta(key string) (string, error)
	SetMeta(key, value string) error
}

// Entry is an option stored in a collection.
type Entry struct {
	selectbox.Option `yaml:",inline"`
	// Id of the entry of the parent collection this entry belongs to.
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
	Seq    int    `json:"-" yaml:"-"`
}
