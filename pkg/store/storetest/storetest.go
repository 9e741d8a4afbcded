// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Solvosoft/fletbatteries/pkg/selectbox"
	"github.com/Solvosoft/fletbatteries/pkg/store/storedefs"
)

func entry(id, text, parent string) storedefs.Entry {
	return storedefs.Entry{Option: selectbox.Option{ID: id, Text: text}, Parent: parent}
}

// TestEntries tests the entry operations of a Store.
func TestEntries(t *testing.T, st storedefs.Store) {
	seq1, err := st.PutEntry("countries", entry("1", "Costa Rica", ""))
	require.NoError(t, err)
	seq2, err := st.PutEntry("countries", entry("2", "Panamá", ""))
	require.NoError(t, err)
	assert.Less(t, seq1, seq2)

	// Replacing keeps the sequence number.
	seq, err := st.PutEntry("countries", entry("1", "Costa Rica (CR)", ""))
	require.NoError(t, err)
	assert.Equal(t, seq1, seq)

	e, err := st.Entry("countries", "1")
	require.NoError(t, err)
	assert.Equal(t, "Costa Rica (CR)", e.Text)
	assert.Equal(t, seq1, e.Seq)

	_, err = st.Entry("countries", "9")
	assert.ErrorIs(t, err, storedefs.ErrNoEntry)
	_, err = st.Entry("cities", "1")
	assert.ErrorIs(t, err, storedefs.ErrNoCollection)
	_, err = st.PutEntry("countries", entry("", "no id", ""))
	assert.ErrorIs(t, err, selectbox.ErrMalformedOption)

	require.NoError(t, st.DelEntry("countries", "1"))
	_, err = st.Entry("countries", "1")
	assert.ErrorIs(t, err, storedefs.ErrNoEntry)
	assert.ErrorIs(t, st.DelEntry("countries", "1"), storedefs.ErrNoEntry)

	names, err := st.Collections()
	require.NoError(t, err)
	assert.Equal(t, []string{"countries"}, names)
	require.NoError(t, st.DelCollection("countries"))
	assert.ErrorIs(t, st.DelCollection("countries"), storedefs.ErrNoCollection)
}

// TestList tests the listing operations of a Store.
func TestList(t *testing.T, st storedefs.Store) {
	for i := 1; i <= 7; i++ {
		_, err := st.PutEntry("people", entry(fmt.Sprint(i), fmt.Sprint("Persona ", i), ""))
		require.NoError(t, err)
	}
	for _, e := range []storedefs.Entry{
		entry("1.1", "San José", "1"),
		entry("1.2", "Alajuela", "1"),
		entry("2.1", "Colón", "2"),
		entry("3.1", "León", "3"),
	} {
		_, err := st.PutEntry("provinces", e)
		require.NoError(t, err)
	}

	tests := []struct {
		name       string
		q          selectbox.Query
		wantIDs    []string
		wantMore   bool
		wantTotals int
	}{
		{"first page", selectbox.Query{Limit: 3}, []string{"1", "2", "3"}, true, 7},
		{"middle page", selectbox.Query{Skip: 3, Limit: 3}, []string{"4", "5", "6"}, true, 7},
		{"last page", selectbox.Query{Skip: 6, Limit: 3}, []string{"7"}, false, 7},
		{"past the end", selectbox.Query{Skip: 9, Limit: 3}, []string{}, false, 7},
		{"no limit", selectbox.Query{}, []string{"1", "2", "3", "4", "5", "6", "7"}, false, 7},
		{"filter", selectbox.Query{Filter: " PERSONA 7", Limit: 3}, []string{"7"}, false, 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, err := st.List("people", test.q)
			require.NoError(t, err)
			assert.Equal(t, test.wantIDs, ids(p.Results))
			assert.Equal(t, test.wantMore, p.More)
			assert.Equal(t, test.wantTotals, p.Total)
		})
	}

	p, err := st.ListChildren("provinces", []string{"1", "3"}, selectbox.Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1.1", "1.2", "3.1"}, ids(p.Results))

	p, err = st.ListChildren("provinces", []string{"3", "1"}, selectbox.Query{Filter: "leon"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3.1"}, ids(p.Results))

	for _, parents := range [][]string{nil, {""}} {
		p, err = st.ListChildren("people", parents, selectbox.Query{})
		require.NoError(t, err)
		assert.Empty(t, p.Results, "children of %q", parents)
		assert.Zero(t, p.Total)
	}

	_, err = st.List("cities", selectbox.Query{})
	assert.ErrorIs(t, err, storedefs.ErrNoCollection)
}

// TestMeta tests the metadata operations of a Store.
func TestMeta(t *testing.T, st storedefs.Store) {
	_, err := st.Meta("fixtures")
	assert.ErrorIs(t, err, storedefs.ErrNoMeta)
	require.NoError(t, st.SetMeta("fixtures", "demo.yaml"))
	v, err := st.Meta("fixtures")
	require.NoError(t, err)
	assert.Equal(t, "demo.yaml", v)
}

func ids(opts []selectbox.Option) []string {
	s := make([]string, len(opts))
	for i, opt := range opts {
		s[i] = opt.ID
	}
	return s
}
