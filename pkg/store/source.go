package store

import (
	"context"

	"github.com/Solvosoft/fletbatteries/pkg/selectbox"
	"github.com/Solvosoft/fletbatteries/pkg/store/storedefs"
)

// LoadFunc returns a selectbox.LoadFunc that lists a collection of st.
func LoadFunc(st storedefs.Store, collection string) selectbox.LoadFunc {
	return func(ctx context.Context, q selectbox.Query) (selectbox.Page, error) {
		if err := ctx.Err(); err != nil {
			return selectbox.Page{}, err
		}
		return st.List(collection, q)
	}
}

// DataFunc returns a selectbox.DataFunc that lists the entries of a
// collection of st whose parent is selected.
func DataFunc(st storedefs.Store, collection string, limit int) selectbox.DataFunc {
	return func(ctx context.Context, parents []string, _ []selectbox.Option) (selectbox.Page, error) {
		if err := ctx.Err(); err != nil {
			return selectbox.Page{}, err
		}
		return st.ListChildren(collection, parents, selectbox.Query{Limit: limit})
	}
}
