package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/kintree/pkg/errors"
)

// WriteRecords encodes a record list in the given format and writes it to w.
// A nil list is written as an empty list so the output always re-imports.
func WriteRecords(recs []Record, format Format, w io.Writer) error {
	if recs == nil {
		recs = []Record{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(recs); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(recs); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported record format %q", format)
	}
	return nil
}

// ExportRecords writes a record list to path, choosing the encoding from the
// file extension (see [FormatFromPath]).
func ExportRecords(recs []Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteRecords(recs, FormatFromPath(path), f)
}
