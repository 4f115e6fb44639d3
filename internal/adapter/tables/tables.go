// Package tables loads the hub and sub terminal lookup tables.
package tables

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/delivery-event-generator/internal/domain"
)

// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// Load reads a flat string-to-string object from path. The decoder is chosen
// by extension: .json, .yaml or .yml.
func Load(path string) (domain.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	t, err := Decode(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Decode parses data according to ext.
func Decode(ext string, data []byte) (domain.Table, error) {
	t := domain.Table{}
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("decode json table: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("decode yaml table: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w %q (want .json, .yaml or .yml)", ErrUnsupportedFormat, ext)
	}
	return t, nil
}
