package selectbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Option is one selectable entry of a dropdown. Options are identified by ID.
//
// Once an option is held by a State, its Selected and Disabled flags are owned
// by the State; data sources only update Text and Image.
type Option struct {
	ID       string `json:"id" yaml:"id"`
	Text     string `json:"text" yaml:"text"`
	Image    string `json:"image,omitempty" yaml:"image,omitempty"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Selected bool   `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// Page is a batch of options returned by a data source.
type Page struct {
	Results []Option
	// More tells whether the source has further options after this page.
	More bool
	// Total is the total number of options matching the query, or 0 when the
	// source does not report it.
	Total int
}

// Query is the argument passed to data sources.
type Query struct {
	Skip   int
	Limit  int
	Filter string
}

// LoadFunc fetches one page of options. It is used both for loading more
// options and for remote search.
type LoadFunc func(ctx context.Context, q Query) (Page, error)

// ErrMalformedOption is returned when an option in a page has no usable id.
var ErrMalformedOption = errors.New("malformed option")

// ParsePage parses a page in the interchange format
//
//	{"results": {"<id>": {...}, ...} | [{...}, ...],
//	 "pagination": {"more": bool, "total": int}}
//
// When results is an object, the options keep the key order of the document
// and an option without an "id" takes its key. Ids may be JSON strings or
// numbers. When an id occurs more than once, the last occurrence wins and the
// position of the first is kept.
func ParsePage(data []byte) (Page, error) {
	var p Page
	err := p.UnmarshalJSON(data)
	return p, err
}

type wirePage struct {
	Results    json.RawMessage `json:"results"`
	Pagination struct {
		More  bool `json:"more"`
		Skip  int  `json:"skip,omitempty"`
		Limit int  `json:"limit,omitempty"`
		Total int  `json:"total,omitempty"`
	} `json:"pagination"`
}

type wireOption struct {
	ID       json.RawMessage `json:"id"`
	Text     string          `json:"text"`
	Image    string          `json:"image"`
	Disabled bool            `json:"disabled"`
	Selected bool            `json:"selected"`
}

// UnmarshalJSON implements json.Unmarshaler with the format described in
// ParsePage.
func (p *Page) UnmarshalJSON(data []byte) error {
	var w wirePage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	results := orderedmap.New[string, Option]()
	add := func(key string, raw json.RawMessage) error {
		var wo wireOption
		if err := json.Unmarshal(raw, &wo); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedOption, err)
		}
		id, ok := parseID(wo.ID)
		if !ok {
			id = key
		}
		if id == "" {
			return fmt.Errorf("%w: no id in %s", ErrMalformedOption, raw)
		}
		results.Set(id, Option{id, wo.Text, wo.Image, wo.Disabled, wo.Selected})
		return nil
	}

	switch raw := bytes.TrimSpace(w.Results); {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
	case raw[0] == '{':
		m := orderedmap.New[string, json.RawMessage]()
		if err := json.Unmarshal(raw, m); err != nil {
			return err
		}
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			if err := add(pair.Key, pair.Value); err != nil {
				return err
			}
		}
	case raw[0] == '[':
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return err
		}
		for _, item := range list {
			if err := add("", item); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("results must be an object or an array, got %s", raw)
	}

	*p = Page{Results: make([]Option, 0, results.Len()), More: w.Pagination.More, Total: w.Pagination.Total}
	for pair := results.Oldest(); pair != nil; pair = pair.Next() {
		p.Results = append(p.Results, pair.Value)
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Results are always written as an
// array.
func (p Page) MarshalJSON() ([]byte, error) {
	var w struct {
		Results    []Option `json:"results"`
		Pagination struct {
			More  bool `json:"more"`
			Total int  `json:"total,omitempty"`
		} `json:"pagination"`
	}
	w.Results = p.Results
	if w.Results == nil {
		w.Results = []Option{}
	}
	w.Pagination.More = p.More
	w.Pagination.Total = p.Total
	return json.Marshal(w)
}

// parseID accepts a JSON string or number.
func parseID(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}
