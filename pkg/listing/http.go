package listing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Solvosoft/fletbatteries/pkg/selectbox"
	"github.com/Solvosoft/fletbatteries/pkg/store/storedefs"
)

// Query parameters of the HTTP API.
const (
	paramSkip   = "skip"
	paramLimit  = "limit"
	paramFilter = "q"
	paramParent = "parent"
)

// NewHTTPHandler returns a handler serving the collections of l:
//
//	GET /{collection}?skip=0&limit=10&q=filter[&parent=id...]
//
// Responses use the format of selectbox.ParsePage.
func NewHTTPHandler(l Lister) http.Handler {
	r := chi.NewRouter()
	r.Get("/{collection}", func(w http.ResponseWriter, req *http.Request) {
		collection := chi.URLParam(req, "collection")
		q, err := parseQuery(req.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var p selectbox.Page
		if parents, ok := req.URL.Query()[paramParent]; ok {
			p, err = l.ListChildren(req.Context(), collection, parents, q)
		} else {
			p, err = l.List(req.Context(), collection, q)
		}
		switch {
		case errors.Is(err, storedefs.ErrNoCollection):
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		case err != nil:
			logger.Printf("listing %s: %v", collection, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data, err := p.MarshalJSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})
	return r
}

func parseQuery(values url.Values) (selectbox.Query, error) {
	q := selectbox.Query{Filter: values.Get(paramFilter)}
	for _, p := range []struct {
		name string
		ptr  *int
	}{{paramSkip, &q.Skip}, {paramLimit, &q.Limit}} {
		s := values.Get(p.name)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, fmt.Errorf("bad %s: %q", p.name, s)
		}
		*p.ptr = n
	}
	return q, nil
}

// StatusError is returned by HTTPClient when the server responds with a
// status other than 200.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("listing server responded %d: %s", e.Code, e.Body)
}

// Unwrap returns storedefs.ErrNoCollection for a 404 response.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return storedefs.ErrNoCollection
	}
	return nil
}

// HTTPClient implements Lister with the API served by NewHTTPHandler.
type HTTPClient struct {
	// URL the collection names are appended to.
	BaseURL string
	// Defaults to http.DefaultClient.
	Client *http.Client
}

var _ Lister = (*HTTPClient)(nil)

func (c *HTTPClient) List(ctx context.Context, collection string, q selectbox.Query) (selectbox.Page, error) {
	return c.get(ctx, collection, nil, q)
}

func (c *HTTPClient) ListChildren(ctx context.Context, collection string, parents []string, q selectbox.Query) (selectbox.Page, error) {
	if parents == nil {
		parents = []string{}
	}
	return c.get(ctx, collection, parents, q)
}

func (c *HTTPClient) get(ctx context.Context, collection string, parents []string, q selectbox.Query) (selectbox.Page, error) {
	values := url.Values{}
	values.Set(paramSkip, strconv.Itoa(q.Skip))
	values.Set(paramLimit, strconv.Itoa(q.Limit))
	if q.Filter != "" {
		values.Set(paramFilter, q.Filter)
	}
	if parents != nil {
		if len(parents) == 0 {
			// Keeps the parameter present, so that no parent matches.
			values.Add(paramParent, "")
		}
		for _, p := range parents {
			values.Add(paramParent, p)
		}
	}
	u := strings.TrimSuffix(c.BaseURL, "/") + "/" + url.PathEscape(collection) + "?" + values.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return selectbox.Page{}, err
	}
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return selectbox.Page{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return selectbox.Page{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return selectbox.Page{}, &StatusError{resp.StatusCode, strings.TrimSpace(string(body))}
	}
	return selectbox.ParsePage(body)
}
