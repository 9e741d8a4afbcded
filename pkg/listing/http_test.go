package listing_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/Solvosoft/fletbatteries/pkg/listing"
	"github.com/Solvosoft/fletbatteries/pkg/selectbox"
)

func setupHTTP(t *testing.T) *HTTPClient {
	r := chi.NewRouter()
	r.Mount("/api", NewHTTPHandler(setupLister(t)))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &HTTPClient{BaseURL: srv.URL + "/api/", Client: srv.Client()}
}

func TestHTTPClient(t *testing.T) {
	testLister(t, setupHTTP(t))
}

func TestHTTPHandler_Responses(t *testing.T) {
	c := setupHTTP(t)

	resp, err := c.Client.Get(c.BaseURL + "people?skip=6&limit=3")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t,
		`{"results": [{"id": "7", "text": "Persona 7"}], "pagination": {"more": false, "total": 7}}`,
		string(body))

	resp, err = c.Client.Get(c.BaseURL + "people?skip=-1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPClient_StatusError(t *testing.T) {
	c := setupHTTP(t)
	_, err := c.List(context.Background(), "people", selectbox.Query{Limit: -1})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
	assert.Contains(t, statusErr.Body, "bad limit")
}

func TestHTTPClient_MalformedPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results": [{"text": "no id"}]}`)
	}))
	defer srv.Close()

	c := &HTTPClient{BaseURL: srv.URL}
	_, err := c.List(context.Background(), "x", selectbox.Query{})
	assert.ErrorIs(t, err, selectbox.ErrMalformedOption)
}
