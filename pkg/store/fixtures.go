package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Solvosoft/fletbatteries/pkg/selectbox"
	"github.com/Solvosoft/fletbatteries/pkg/store/storedefs"
)

// MetaFixtures is the metadata key recording the fixture file a catalog was
// seeded from.
const MetaFixtures = "fixtures"

// Fixtures is the content of a fixture file:
//
//	collections:
//	  countries:
//	    - {id: "1", text: Costa Rica}
//	    - {id: "2", text: Panamá, selected: true}
//	  provinces:
//	    - {id: "1.1", text: San José, parent: "1"}
type Fixtures struct {
	Collections map[string][]storedefs.Entry `yaml:"collections"`
}

// ParseFixtures parses a fixture file. An empty file has no collections.
func ParseFixtures(r io.Reader) (Fixtures, error) {
	var f Fixtures
	err := yaml.NewDecoder(r).Decode(&f)
	if err != nil && !errors.Is(err, io.EOF) {
		return f, err
	}
	for name, entries := range f.Collections {
		for i, e := range entries {
			if e.ID == "" {
				return f, fmt.Errorf("%w: entry %d of %s has no id", selectbox.ErrMalformedOption, i, name)
			}
		}
	}
	return f, nil
}

// ReadFixtures parses the named fixture file.
func ReadFixtures(fname string) (Fixtures, error) {
	file, err := os.Open(fname)
	if err != nil {
		return Fixtures{}, err
	}
	defer file.Close()
	return ParseFixtures(file)
}

// Seed writes all the fixtures to st, collection by collection in the order
// of their names, and returns the number of entries written.
func Seed(st storedefs.Store, f Fixtures) (int, error) {
	names := make([]string, 0, len(f.Collections))
	for name := range f.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	n := 0
	for _, name := range names {
		for _, e := range f.Collections[name] {
			if _, err := st.PutEntry(name, e); err != nil {
				return n, fmt.Errorf("seeding %s: %w", name, err)
			}
			n++
		}
	}
	logger.Printf("seeded %d entries in %d collections", n, len(names))
	return n, nil
}
