package listing

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Solvosoft/fletbatteries/pkg/selectbox"
)

// Shared is a Lister that lets identical queries in flight at the same time
// share one call to the underlying Lister. Dropdowns bound to the same
// collection opening together only cost one request.
type Shared struct {
	Lister Lister
	group  singleflight.Group
}

var _ Lister = (*Shared)(nil)

func (s *Shared) List(ctx context.Context, collection string, q selectbox.Query) (selectbox.Page, error) {
	return s.do(queryKey("list", collection, nil, q), func() (selectbox.Page, error) {
		return s.Lister.List(ctx, collection, q)
	})
}

func (s *Shared) ListChildren(ctx context.Context, collection string, parents []string, q selectbox.Query) (selectbox.Page, error) {
	return s.do(queryKey("children", collection, parents, q), func() (selectbox.Page, error) {
		return s.Lister.ListChildren(ctx, collection, parents, q)
	})
}

func (s *Shared) do(key string, f func() (selectbox.Page, error)) (selectbox.Page, error) {
	v, err, shared := s.group.Do(key, func() (any, error) { return f() })
	if shared {
		logger.Println("shared result of", key)
	}
	p, _ := v.(selectbox.Page)
	if shared {
		// Each caller gets its own slice, since States keep what they are
		// given.
		p.Results = append([]selectbox.Option(nil), p.Results...)
	}
	return p, err
}

func queryKey(kind, collection string, parents []string, q selectbox.Query) string {
	return fmt.Sprintf("%s\x00%s\x00%s\x00%d\x00%d\x00%s",
		kind, collection, strings.Join(parents, "\x01"), q.Skip, q.Limit, q.Filter)
}

// Preload fetches the first n pages of a collection concurrently and returns
// them as one page, for the initial data of a dropdown. The page size is
// q.Limit, which must be positive, and pages start at q.Skip.
func Preload(ctx context.Context, l Lister, collection string, q selectbox.Query, n int) (selectbox.Page, error) {
	if q.Limit <= 0 {
		return selectbox.Page{}, fmt.Errorf("preload needs a positive limit, got %d", q.Limit)
	}
	pages := make([]selectbox.Page, n)
	g, ctx := errgroup.WithContext(ctx)
	for i := range pages {
		g.Go(func() error {
			pq := q
			pq.Skip = q.Skip + i*q.Limit
			p, err := l.List(ctx, collection, pq)
			if err != nil {
				return fmt.Errorf("page at %d: %w", pq.Skip, err)
			}
			pages[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return selectbox.Page{}, err
	}

	var merged selectbox.Page
	for _, p := range pages {
		merged.Results = append(merged.Results, p.Results...)
		merged.More, merged.Total = p.More, max(merged.Total, p.Total)
		if !p.More {
			break
		}
	}
	return merged, nil
}
