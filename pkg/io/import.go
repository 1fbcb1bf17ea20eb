package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/kintree/pkg/errors"
)

// ReadRecords decodes a record list in the given format from r.
//
// The input must be a top-level list:
//
//	[
//	  {"given_name": "Ana", "family_name": "Mora", "national_id": "1-0001-0001",
//	   "latitude": 9.93, "longitude": -84.08, "birth_date": "1950-03-01T00:00:00Z"}
//	]
//
// Every record is validated; the first invalid record aborts the read and the
// error names its position. ReadRecords does not close r.
func ReadRecords(r io.Reader, format Format) ([]Record, error) {
	var recs []Record
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&recs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode records")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&recs); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode records")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported record format %q", format)
	}

	for i, rec := range recs {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return recs, nil
}

// ImportRecords reads a record list from path, choosing the encoding from the
// file extension (see [FormatFromPath]).
func ImportRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadRecords(f, FormatFromPath(path))
}
