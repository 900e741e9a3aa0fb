package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CatalogSchema is the top-level structure of an event catalog file.
type CatalogSchema struct {
	Festival string          `json:"festival" yaml:"festival"`
	Date     string          `json:"date,omitempty" yaml:"date,omitempty"`
	Defaults *DefaultsImport `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Events   []EventImport   `json:"events" yaml:"events"`
}

// DefaultsImport holds values applied to events that leave them out.
type DefaultsImport struct {
	Duration   *int   `json:"duration,omitempty" yaml:"duration,omitempty"`
	Location   string `json:"location,omitempty" yaml:"location,omitempty"`
	Category   string `json:"category,omitempty" yaml:"category,omitempty"`
	Popularity *int   `json:"popularity,omitempty" yaml:"popularity,omitempty"`
}

// EventImport defines one catalog event.
type EventImport struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Date        *string `json:"date,omitempty" yaml:"date,omitempty"`
	Time        string  `json:"time" yaml:"time"`
	Duration    *int    `json:"duration,omitempty" yaml:"duration,omitempty"`
	Location    string  `json:"location,omitempty" yaml:"location,omitempty"`
	Category    string  `json:"category,omitempty" yaml:"category,omitempty"`
	Popularity  *int    `json:"popularity,omitempty" yaml:"popularity,omitempty"`
	Price       *int    `json:"price,omitempty" yaml:"price,omitempty"`
	Capacity    *int    `json:"capacity,omitempty" yaml:"capacity,omitempty"`
}

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported catalog file %q (expected .yaml, .yml or .json)", path)
	}
}

// LoadCatalog reads and parses a catalog file.
func LoadCatalog(path string) (*CatalogSchema, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data, format)
}

func ParseCatalog(data []byte, format Format) (*CatalogSchema, error) {
	var schema CatalogSchema
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing catalog yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing catalog json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown catalog format %q", format)
	}
	return &schema, nil
}
