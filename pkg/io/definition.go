package io

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/kintree/pkg/errors"
)

// Definition is a hand-written family description. Unlike a record list it
// declares relationships, so it is an input script rather than a storage
// format: it is replayed member by member, and every relationship check
// applies as if the calls were made directly.
//
//	[[person]]
//	key = "ana"
//	given_name = "Ana"
//	family_name = "Mora"
//	birth_date = 1950-03-01
//	latitude = 9.93
//	longitude = -84.08
//
//	[[partner]]
//	a = "ana"
//	b = "luis"
//
//	[[child]]
//	parent = "ana"
//	child = "sofia"
type Definition struct {
	People   []DefinedPerson `toml:"person"`
	Partners []PartnerDecl   `toml:"partner"`
	Children []ChildDecl     `toml:"child"`
}

// DefinedPerson is a record plus the local key used to reference it from
// partner and child declarations.
type DefinedPerson struct {
	Key        string     `toml:"key"`
	FamilyName string     `toml:"family_name"`
	GivenName  string     `toml:"given_name"`
	NationalID string     `toml:"national_id"`
	Latitude   float64    `toml:"latitude"`
	Longitude  float64    `toml:"longitude"`
	BirthDate  time.Time  `toml:"birth_date"`
	DeathDate  *time.Time `toml:"death_date"`
}

// Record converts the definition entry to a persisted record. TOML local
// dates carry a synthetic location, so dates are normalized to UTC midnight.
func (p DefinedPerson) Record() Record {
	rec := Record{
		FamilyName: p.FamilyName,
		GivenName:  p.GivenName,
		NationalID: p.NationalID,
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		BirthDate:  utcDate(p.BirthDate),
	}
	if p.DeathDate != nil {
		d := utcDate(*p.DeathDate)
		rec.DeathDate = &d
	}
	return rec
}

func utcDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PartnerDecl pairs two people by key.
type PartnerDecl struct {
	A string `toml:"a"`
	B string `toml:"b"`
}

// ChildDecl declares a parent/child link by key.
type ChildDecl struct {
	Parent string `toml:"parent"`
	Child  string `toml:"child"`
}

// Validate checks keys and records. It does not check relationship rules
// (cycles, parent limits); those surface when the definition is replayed.
func (d *Definition) Validate() error {
	seen := make(map[string]bool, len(d.People))
	for i, p := range d.People {
		if err := errors.ValidateKey(p.Key); err != nil {
			return fmt.Errorf("person %d: %w", i, err)
		}
		if seen[p.Key] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate person key %q", p.Key)
		}
		seen[p.Key] = true
		if err := p.Record().Validate(); err != nil {
			return fmt.Errorf("person %q: %w", p.Key, err)
		}
	}

	ref := func(kind, key string) error {
		if !seen[key] {
			return errors.New(errors.ErrCodeInvalidReference, "%s references unknown person %q", kind, key)
		}
		return nil
	}
	for _, p := range d.Partners {
		if err := ref("partner", p.A); err != nil {
			return err
		}
		if err := ref("partner", p.B); err != nil {
			return err
		}
	}
	for _, c := range d.Children {
		if err := ref("child", c.Parent); err != nil {
			return err
		}
		if err := ref("child", c.Child); err != nil {
			return err
		}
	}
	return nil
}

// ReadDefinition decodes and validates a TOML family definition from r.
func ReadDefinition(r io.Reader) (*Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var def Definition
	if err := toml.Unmarshal(data, &def); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode definition")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadDefinition reads a TOML family definition from path.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ReadDefinition(bytes.NewReader(data))
}
