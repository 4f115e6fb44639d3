// Package csvfile implements a read-only DataSource over a delimited address
// file loaded entirely into memory.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/delivery-event-generator/internal/domain"
)

// utf8BOM is stripped from the first header cell when present.
const utf8BOM = "\ufeff"

// Source serves records keyed "addr:<row>" in file order.
type Source struct {
	path    string
	records map[string]domain.Record
}

// Open loads the CSV file at path. The first row names the fields.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open address file: %w", err)
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read address file %s: %w", path, err)
	}
	return &Source{path: path, records: records}, nil
}

// Parse reads CSV rows from r into records keyed by 1-based row number.
// Short rows leave their trailing fields absent.
func Parse(r io.Reader) (map[string]domain.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return map[string]domain.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	records := make(map[string]domain.Record)
	for n := 1; ; n++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", n, err)
		}

		rec := make(domain.Record, len(header))
		for j, name := range header {
			if j < len(row) {
				rec[name] = row[j]
			}
		}
		records[domain.AddressKey(n)] = rec
	}
	return records, nil
}

// Get returns the record for key, or domain.ErrNotFound.
func (s *Source) Get(_ context.Context, key string) (domain.Record, error) {
	rec, ok := s.records[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// Size returns the number of loaded rows.
func (s *Source) Size(_ context.Context) (int, error) {
	return len(s.records), nil
}

// Records returns the loaded rows in file order.
func (s *Source) Records() []domain.Record {
	out := make([]domain.Record, 0, len(s.records))
	for n := 1; n <= len(s.records); n++ {
		out = append(out, s.records[domain.AddressKey(n)])
	}
	return out
}

// Path returns the file the source was loaded from.
func (s *Source) Path() string { return s.path }
