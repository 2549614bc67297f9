package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a catalog document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", &ConfigError{Source: path, Reason: "unsupported catalog format"}
}

// document mirrors the catalog file. Pointers tell an absent section
// from an empty one.
type document struct {
	Bodies   *[]Body   `json:"bodies" yaml:"bodies" toml:"bodies"`
	Items    *[]Item   `json:"items" yaml:"items" toml:"items"`
	Skins    *[]Skin   `json:"skins" yaml:"skins" toml:"skins"`
	Settings *Settings `json:"settings" yaml:"settings" toml:"settings"`
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return parse(raw, format, path)
}

// Parse decodes and validates catalog bytes.
func Parse(data []byte, format Format) (*Catalog, error) {
	return parse(data, format, "")
}

func parse(data []byte, format Format, source string) (*Catalog, error) {
	var doc document
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		err = dec.Decode(&doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, &ConfigError{Source: source, Reason: fmt.Sprintf("unsupported catalog format %q", format)}
	}
	if err != nil {
		return nil, &ConfigError{Source: source, Reason: "parse: " + err.Error()}
	}
	return build(doc, source)
}
