// Package listing serves and fetches pages of options over the network.
//
// A Lister lists the entries of named collections. The catalog store is
// exposed as a Lister with StoreLister, served over HTTP with NewHTTPHandler
// and over JSON-RPC with NewRPCHandler, and fetched back with HTTPClient and
// RPCClient. LoadFunc and DataFunc adapt any Lister to the callbacks of the
// selectbox package.
package listing

import (
	"context"

	"github.com/Solvosoft/fletbatteries/pkg/logutil"
	"github.com/Solvosoft/fletbatteries/pkg/selectbox"
	"github.com/Solvosoft/fletbatteries/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[listing] ")

// Lister lists collections of options.
type Lister interface {
	List(ctx context.Context, collection string, q selectbox.Query) (selectbox.Page, error)
	// ListChildren lists the options of a collection whose parent is one of
	// parents.
	ListChildren(ctx context.Context, collection string, parents []string, q selectbox.Query) (selectbox.Page, error)
}

// StoreLister implements Lister with a catalog store.
type StoreLister struct {
	Store storedefs.Store
}

var _ Lister = StoreLister{}

func (l StoreLister) List(ctx context.Context, collection string, q selectbox.Query) (selectbox.Page, error) {
	if err := ctx.Err(); err != nil {
		return selectbox.Page{}, err
	}
	return l.Store.List(collection, q)
}

func (l StoreLister) ListChildren(ctx context.Context, collection string, parents []string, q selectbox.Query) (selectbox.Page, error) {
	if err := ctx.Err(); err != nil {
		return selectbox.Page{}, err
	}
	return l.Store.ListChildren(collection, parents, q)
}

// LoadFunc returns a selectbox.LoadFunc listing a collection of l.
func LoadFunc(l Lister, collection string) selectbox.LoadFunc {
	return func(ctx context.Context, q selectbox.Query) (selectbox.Page, error) {
		return l.List(ctx, collection, q)
	}
}

// DataFunc returns a selectbox.DataFunc listing the children of the selected
// parents in a collection of l, up to limit options.
func DataFunc(l Lister, collection string, limit int) selectbox.DataFunc {
	return func(ctx context.Context, parents []string, _ []selectbox.Option) (selectbox.Page, error) {
		return l.ListChildren(ctx, collection, parents, selectbox.Query{Limit: limit})
	}
}
