package store_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Solvosoft/fletbatteries/pkg/selectbox"
	"github.com/Solvosoft/fletbatteries/pkg/store"
	"github.com/Solvosoft/fletbatteries/pkg/store/storedefs"
	"github.com/Solvosoft/fletbatteries/pkg/store/storetest"
	"github.com/Solvosoft/fletbatteries/pkg/testutil"
)

func TestEntries(t *testing.T) {
	storetest.TestEntries(t, store.MustTempStore(t))
}

func TestList(t *testing.T) {
	storetest.TestList(t, store.MustTempStore(t))
}

func TestMeta(t *testing.T) {
	storetest.TestMeta(t, store.MustTempStore(t))
}

func TestNewStore_Reopen(t *testing.T) {
	fname := filepath.Join(testutil.TempDir(t), "catalog.db")
	st, err := store.NewStore(fname)
	require.NoError(t, err)
	_, err = st.PutEntry("countries", storedefs.Entry{Option: selectbox.Option{ID: "1", Text: "Costa Rica"}})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = store.NewStore(fname)
	require.NoError(t, err)
	defer st.Close()
	e, err := st.Entry("countries", "1")
	require.NoError(t, err)
	assert.Equal(t, "Costa Rica", e.Text)
}

var fixtures = testutil.Dedent(`
	collections:
	  countries:
	    - {id: "1", text: Costa Rica}
	    - {id: "2", text: Panamá, selected: true}
	    - {id: "3", text: Nicaragua, disabled: true}
	  provinces:
	    - {id: "1.1", text: San José, parent: "1"}
	    - {id: "2.1", text: Colón, parent: "2"}
	`)

func TestSeed(t *testing.T) {
	st := store.MustTempStore(t)
	f, err := store.ParseFixtures(strings.NewReader(fixtures))
	require.NoError(t, err)
	n, err := store.Seed(st, f)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	p, err := st.List("countries", selectbox.Query{})
	require.NoError(t, err)
	assert.Equal(t, []selectbox.Option{
		{ID: "1", Text: "Costa Rica"},
		{ID: "2", Text: "Panamá", Selected: true},
		{ID: "3", Text: "Nicaragua", Disabled: true},
	}, p.Results)

	e, err := st.Entry("provinces", "2.1")
	require.NoError(t, err)
	assert.Equal(t, "2", e.Parent)
}

func TestParseFixtures_Errors(t *testing.T) {
	_, err := store.ParseFixtures(strings.NewReader("collections:\n  c:\n    - {text: x}\n"))
	assert.ErrorIs(t, err, selectbox.ErrMalformedOption)

	_, err = store.ParseFixtures(strings.NewReader("collections: [\n"))
	assert.Error(t, err)

	f, err := store.ParseFixtures(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Collections)
}

func TestLoadFuncAndDataFunc(t *testing.T) {
	st := store.MustTempStore(t)
	f, err := store.ParseFixtures(strings.NewReader(fixtures))
	require.NoError(t, err)
	_, err = store.Seed(st, f)
	require.NoError(t, err)

	load := store.LoadFunc(st, "countries")
	p, err := load(context.Background(), selectbox.Query{Skip: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "Panamá", p.Results[0].Text)
	assert.True(t, p.More)

	data := store.DataFunc(st, "provinces", 10)
	p, err = data(context.Background(), []string{"2"}, nil)
	require.NoError(t, err)
	assert.Len(t, p.Results, 1)
	assert.Equal(t, "Colón", p.Results[0].Text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = load(ctx, selectbox.Query{})
	assert.ErrorIs(t, err, context.Canceled)
}
