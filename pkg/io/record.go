package io

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/kintree/pkg/errors"
)

// Record is the identifier-free persisted form of a person. A list of
// records is order-preserving and fully reconstructable: loading it re-adds
// each person in sequence. Relationships are not part of a record.
type Record struct {
	FamilyName string     `json:"family_name" yaml:"family_name" bson:"family_name"`
	GivenName  string     `json:"given_name" yaml:"given_name" bson:"given_name"`
	NationalID string     `json:"national_id" yaml:"national_id" bson:"national_id"`
	Latitude   float64    `json:"latitude" yaml:"latitude" bson:"latitude"`
	Longitude  float64    `json:"longitude" yaml:"longitude" bson:"longitude"`
	BirthDate  time.Time  `json:"birth_date" yaml:"birth_date" bson:"birth_date"`
	DeathDate  *time.Time `json:"death_date,omitempty" yaml:"death_date,omitempty" bson:"death_date,omitempty"`
}

// Validate checks the record's names, coordinates and lifespan.
func (r Record) Validate() error {
	if err := errors.ValidateName(r.GivenName); err != nil {
		return err
	}
	if err := errors.ValidateName(r.FamilyName); err != nil {
		return err
	}
	if err := errors.ValidateCoordinates(r.Latitude, r.Longitude); err != nil {
		return err
	}
	return errors.ValidateLifespan(r.BirthDate, r.DeathDate)
}

// Format identifies a record list encoding.
type Format string

// Supported record list encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ValidFormats is the set of accepted record list encodings.
var ValidFormats = map[Format]bool{
	FormatJSON: true,
	FormatYAML: true,
}

// FormatFromPath picks the encoding from a file extension. Anything other
// than .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
