// Package site turns publication records into the artifacts the static site
// loads: an indented JSON array plus a script-embedded compact copy.
package site

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"pubsite/src/internal/pubs"
)

const (
	defaultHeader = "// Auto-generated from BibTeX. Do not edit by hand."
	defaultJSVar  = "window.PUBLICATIONS"
)

// Config controls the generated artifacts. Empty fields fall back to the
// stock values, so a config file only needs the keys it overrides.
type Config struct {
	JSVar       string   `yaml:"js_var"`
	Header      string   `yaml:"header"`
	VenueFields []string `yaml:"venue_fields"`
}

// Default returns the stock site configuration.
func Default() Config {
	return Config{
		JSVar:       defaultJSVar,
		Header:      defaultHeader,
		VenueFields: append([]string(nil), pubs.DefaultVenueFields...),
	}
}

// Load reads a YAML config file and overlays it on the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	var in Config
	if err := yaml.Unmarshal(b, &in); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if s := strings.TrimSpace(in.JSVar); s != "" {
		cfg.JSVar = s
	}
	if strings.TrimSpace(in.Header) != "" {
		cfg.Header = in.Header
	}
	if len(in.VenueFields) > 0 {
		cfg.VenueFields = in.VenueFields
	}
	return cfg, nil
}
