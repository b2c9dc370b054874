package featurestore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// table is a CSV file with lower-cased, trimmed headers.
type table struct {
	path   string
	header map[string]int
	rows   [][]string
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenDataset, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	head, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: missing header", ErrMalformedDataset, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedDataset, path, err)
	}

	t := &table{path: path, header: make(map[string]int, len(head))}
	for i, h := range head {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		key = strings.ReplaceAll(key, " ", "_")
		if _, dup := t.header[key]; !dup {
			t.header[key] = i
		}
	}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedDataset, path, err)
		}
		if blank(rec) {
			continue
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

// column resolves the first header present among aliases.
func (t *table) column(aliases ...string) (int, bool) {
	for _, a := range aliases {
		if i, ok := t.header[a]; ok {
			return i, true
		}
	}
	return -1, false
}

// require resolves a mandatory column.
func (t *table) require(aliases ...string) (int, error) {
	if i, ok := t.column(aliases...); ok {
		return i, nil
	}
	return -1, fmt.Errorf("%w: %s: missing column %s", ErrMalformedDataset, t.path, aliases[0])
}

// cell returns the trimmed value at column i, or "" when absent.
func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// splitList splits multi-valued cells on ';', '|' or ','.
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '|' || r == ',' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
