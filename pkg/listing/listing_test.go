package listing_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/Solvosoft/fletbatteries/pkg/listing"
	"github.com/Solvosoft/fletbatteries/pkg/selectbox"
	"github.com/Solvosoft/fletbatteries/pkg/store"
	"github.com/Solvosoft/fletbatteries/pkg/store/storedefs"
)

// Returns a Lister backed by a store with 7 people and 4 provinces of 3
// countries.
func setupLister(t *testing.T) StoreLister {
	st := store.MustTempStore(t)
	for i := 1; i <= 7; i++ {
		_, err := st.PutEntry("people", storedefs.Entry{
			Option: selectbox.Option{ID: fmt.Sprint(i), Text: fmt.Sprint("Persona ", i)}})
		require.NoError(t, err)
	}
	f, err := store.ParseFixtures(strings.NewReader(`
collections:
  provinces:
    - {id: "1.1", text: San José, parent: "1"}
    - {id: "1.2", text: Alajuela, parent: "1"}
    - {id: "2.1", text: Colón, parent: "2"}
    - {id: "3.1", text: León, parent: "3"}
`))
	require.NoError(t, err)
	_, err = store.Seed(st, f)
	require.NoError(t, err)
	return StoreLister{st}
}

func ids(p selectbox.Page) []string {
	s := make([]string, len(p.Results))
	for i, opt := range p.Results {
		s[i] = opt.ID
	}
	return s
}

// Tests shared by all implementations of Lister.
func testLister(t *testing.T, l Lister) {
	ctx := context.Background()

	p, err := l.List(ctx, "people", selectbox.Query{Skip: 2, Limit: 3})
	require.NoError(t, err)
	require.Equal(t, []string{"3", "4", "5"}, ids(p))
	require.True(t, p.More)
	require.Equal(t, 7, p.Total)

	p, err = l.List(ctx, "people", selectbox.Query{Limit: 10, Filter: "persona 7"})
	require.NoError(t, err)
	require.Equal(t, []string{"7"}, ids(p))
	require.False(t, p.More)

	p, err = l.ListChildren(ctx, "provinces", []string{"1", "3"}, selectbox.Query{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, []string{"1.1", "1.2", "3.1"}, ids(p))
	require.Equal(t, "León", p.Results[2].Text)

	p, err = l.ListChildren(ctx, "provinces", nil, selectbox.Query{Limit: 10})
	require.NoError(t, err)
	require.Empty(t, p.Results)

	// Root entries are nobody's children.
	for _, parents := range [][]string{nil, {}, {""}} {
		p, err = l.ListChildren(ctx, "people", parents, selectbox.Query{Limit: 10})
		require.NoError(t, err)
		require.Empty(t, p.Results, "children of %q", parents)
		require.Zero(t, p.Total)
	}

	_, err = l.List(ctx, "cities", selectbox.Query{Limit: 10})
	require.ErrorIs(t, err, storedefs.ErrNoCollection)
}

func TestStoreLister(t *testing.T) {
	testLister(t, setupLister(t))
}

func TestLoadFuncAndDataFunc(t *testing.T) {
	l := setupLister(t)
	p, err := LoadFunc(l, "people")(context.Background(), selectbox.Query{Skip: 6, Limit: 3})
	require.NoError(t, err)
	require.Equal(t, []string{"7"}, ids(p))

	p, err = DataFunc(l, "provinces", 1)(context.Background(), []string{"1"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"1.1"}, ids(p))
	require.True(t, p.More)
}
