package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Solvosoft/fletbatteries/pkg/selectbox"
	"github.com/Solvosoft/fletbatteries/pkg/testutil"
)

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(testutil.Dedent(`
		search_delay: 200ms
		page_limit: 5
		source:
		  kind: http
		  url: http://localhost:8080/api
		dropdowns:
		  - label: Personas
		    collection: people
		    mode: multiple
		`)))
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		SearchDelay:  200 * time.Millisecond,
		BlurGrace:    selectbox.DefaultBlurGrace,
		PageLimit:    5,
		PreloadPages: 1,
		ListHeight:   8,
		Source:       Source{Kind: SourceHTTP, URL: "http://localhost:8080/api"},
		Dropdowns:    []Dropdown{{Label: "Personas", Collection: "people", Mode: "multiple"}},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if c.Dropdowns[0].SelectMode() != selectbox.MultipleMode {
		t.Errorf("SelectMode -> %v", c.Dropdowns[0].SelectMode())
	}
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if c.Source.Kind != SourceBolt || c.Source.Path != "catalog.db" || c.PageLimit != selectbox.DefaultLimit {
		t.Errorf("defaults not applied: %+v", c)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, test := range []struct {
		name        string
		yaml        string
		wantInvalid bool
		wantMsg     string
	}{
		{"unknown key", "colour: red\n", false, "colour"},
		{"bad duration", "blur_grace: soon\n", false, "soon"},
		{"negative limit", "page_limit: -1\n", true, "page_limit"},
		{"unknown source", "source: {kind: ftp}\n", true, `"ftp"`},
		{"missing url", "source: {kind: http}\n", true, "source.url"},
		{"missing address", "source: {kind: rpc}\n", true, "source.address"},
		{"missing collection", "related: [{label: x}]\n", true, "related[0].collection"},
		{"bad mode", "dropdowns: [{collection: c, mode: many}]\n", true, "dropdowns[0].mode"},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(test.yaml))
			if err == nil {
				t.Fatal("Parse -> no error")
			}
			if errors.Is(err, ErrInvalid) != test.wantInvalid {
				t.Errorf("Parse -> %v, want ErrInvalid: %v", err, test.wantInvalid)
			}
			if !strings.Contains(err.Error(), test.wantMsg) {
				t.Errorf("Parse -> %v, want message containing %q", err, test.wantMsg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := testutil.TempDir(t)

	c, err := Load(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("Load of missing file (-want +got):\n%s", diff)
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() -> %v", err)
	}

	fname := filepath.Join(dir, "bad.yaml")
	os.WriteFile(fname, []byte("list_height: 0\npage_limit: -2\n"), 0644)
	_, err = Load(fname)
	if err == nil || !strings.Contains(err.Error(), "bad.yaml") {
		t.Errorf("Load -> %v, want error naming the file", err)
	}
}
