// Package config reads the YAML configuration of the selection demo.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Solvosoft/fletbatteries/pkg/selectbox"
)

// ErrInvalid is wrapped by the errors of Validate.
var ErrInvalid = errors.New("invalid config")

// Kinds of data sources.
const (
	SourceBolt = "bolt"
	SourceHTTP = "http"
	SourceRPC  = "rpc"
)

// Config is the content of a configuration file.
type Config struct {
	SearchDelay time.Duration `yaml:"search_delay"`
	BlurGrace   time.Duration `yaml:"blur_grace"`
	// Options per page.
	PageLimit int `yaml:"page_limit"`
	// Pages fetched before a dropdown is first shown.
	PreloadPages int `yaml:"preload_pages"`
	ListHeight   int `yaml:"list_height"`
	// Empty to discard logs.
	LogFile string `yaml:"log_file"`

	Source   Source `yaml:"source"`
	Fixtures string `yaml:"fixtures"`
	// Listen addresses of the serve command.
	Serve Serve `yaml:"serve"`

	// Independent dropdowns.
	Dropdowns []Dropdown `yaml:"dropdowns"`
	// Dropdowns forming one cascade, each filtered by the selection of the
	// one before it.
	Related []Dropdown `yaml:"related"`
}

// Source specifies where options come from.
type Source struct {
	// One of SourceBolt, SourceHTTP and SourceRPC.
	Kind string `yaml:"kind"`
	// Database file, for SourceBolt.
	Path string `yaml:"path"`
	// Base URL, for SourceHTTP.
	URL string `yaml:"url"`
	// TCP address, for SourceRPC.
	Address string `yaml:"address"`
}

// Serve holds the listen addresses of the serve command. An empty address
// disables the corresponding server.
type Serve struct {
	HTTP string `yaml:"http"`
	RPC  string `yaml:"rpc"`
}

// Dropdown describes one dropdown.
type Dropdown struct {
	Label       string `yaml:"label"`
	Placeholder string `yaml:"placeholder"`
	Collection  string `yaml:"collection"`
	// "single" or "multiple". Defaults to "single".
	Mode string `yaml:"mode"`
	// Whether typing searches the data source instead of the options
	// already loaded.
	RemoteSearch bool `yaml:"remote_search"`
}

// SelectMode returns the selection mode of the dropdown.
func (d Dropdown) SelectMode() selectbox.Mode {
	if d.Mode == selectbox.MultipleMode.String() {
		return selectbox.MultipleMode
	}
	return selectbox.SingleMode
}

// Default returns the configuration used when there is no configuration
// file.
func Default() *Config {
	c := &Config{
		Source:   Source{Kind: SourceBolt, Path: "catalog.db"},
		Fixtures: "fixtures.yaml",
		Serve:    Serve{HTTP: "127.0.0.1:8080", RPC: "127.0.0.1:8081"},
		Dropdowns: []Dropdown{
			{Label: "País", Collection: "countries"},
			{Label: "Personas", Collection: "people", Mode: "multiple", RemoteSearch: true},
		},
		Related: []Dropdown{
			{Label: "País", Collection: "countries"},
			{Label: "Provincia", Collection: "provinces"},
			{Label: "Cantones", Collection: "cantons", Mode: "multiple"},
		},
	}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.SearchDelay == 0 {
		c.SearchDelay = selectbox.DefaultSearchDelay
	}
	if c.BlurGrace == 0 {
		c.BlurGrace = selectbox.DefaultBlurGrace
	}
	if c.PageLimit == 0 {
		c.PageLimit = selectbox.DefaultLimit
	}
	if c.PreloadPages == 0 {
		c.PreloadPages = 1
	}
	if c.ListHeight == 0 {
		c.ListHeight = 8
	}
	if c.Source.Kind == "" {
		c.Source.Kind = SourceBolt
	}
	if c.Source.Kind == SourceBolt && c.Source.Path == "" {
		c.Source.Path = "catalog.db"
	}
}

// Validate checks the values of c.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}
	check(c.SearchDelay > 0, "search_delay must be positive, got %v", c.SearchDelay)
	check(c.BlurGrace > 0, "blur_grace must be positive, got %v", c.BlurGrace)
	check(c.PageLimit > 0, "page_limit must be positive, got %d", c.PageLimit)
	check(c.PreloadPages > 0, "preload_pages must be positive, got %d", c.PreloadPages)
	check(c.ListHeight > 0, "list_height must be positive, got %d", c.ListHeight)
	switch c.Source.Kind {
	case SourceBolt:
		check(c.Source.Path != "", "source.path is required for kind %s", SourceBolt)
	case SourceHTTP:
		check(c.Source.URL != "", "source.url is required for kind %s", SourceHTTP)
	case SourceRPC:
		check(c.Source.Address != "", "source.address is required for kind %s", SourceRPC)
	default:
		check(false, "unknown source.kind %q", c.Source.Kind)
	}
	for _, group := range []struct {
		name string
		ds   []Dropdown
	}{{"dropdowns", c.Dropdowns}, {"related", c.Related}} {
		for i, d := range group.ds {
			check(d.Collection != "", "%s[%d].collection is required", group.name, i)
			check(d.Mode == "" || d.Mode == "single" || d.Mode == "multiple",
				"%s[%d].mode must be single or multiple, got %q", group.name, i, d.Mode)
		}
	}
	return errors.Join(errs...)
}

// Parse reads a configuration, applies the defaults and validates it. Unknown
// keys are errors.
func Parse(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads the named configuration file. If the file does not exist, it
// returns Default().
func Load(fname string) (*Config, error) {
	data, err := os.ReadFile(fname)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	} else if err != nil {
		return nil, err
	}
	c, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return c, nil
}
