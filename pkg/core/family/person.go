package family

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/kintree/pkg/core/geo"
	"github.com/matzehuels/kintree/pkg/io"
)

// Person is the payload stored in every node of a family tree.
//
// ID mirrors the owning node's identifier and is assigned by [Tree.AddMember].
// PartnerID is uuid.Nil when the person has no partner.
type Person struct {
	ID         uuid.UUID
	NationalID string
	GivenName  string
	FamilyName string
	BirthDate  time.Time
	DeathDate  *time.Time
	Latitude   float64
	Longitude  float64
	PartnerID  uuid.UUID
}

// FromRecord builds a person from its persisted form.
func FromRecord(r io.Record) *Person {
	p := &Person{
		NationalID: r.NationalID,
		GivenName:  r.GivenName,
		FamilyName: r.FamilyName,
		BirthDate:  r.BirthDate,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
	}
	if r.DeathDate != nil {
		d := *r.DeathDate
		p.DeathDate = &d
	}
	return p
}

// Record returns the persisted form of the person. Identity and partner
// links are not part of it.
func (p *Person) Record() io.Record {
	r := io.Record{
		FamilyName: p.FamilyName,
		GivenName:  p.GivenName,
		NationalID: p.NationalID,
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		BirthDate:  p.BirthDate,
	}
	if p.DeathDate != nil {
		d := *p.DeathDate
		r.DeathDate = &d
	}
	return r
}

// FullName returns "Given Family", skipping empty parts.
func (p *Person) FullName() string {
	return strings.TrimSpace(p.GivenName + " " + p.FamilyName)
}

// IsAlive reports whether no death date is recorded.
func (p *Person) IsAlive() bool { return p.DeathDate == nil }

// HasPartner reports whether a partner reference is set.
func (p *Person) HasPartner() bool { return p.PartnerID != uuid.Nil }

// Location returns the person's coordinates.
func (p *Person) Location() geo.Point {
	return geo.Point{Lat: p.Latitude, Lon: p.Longitude}
}

// AgeAt returns the number of full years between the birth date and t.
// The birthday itself counts: someone born on 2000-03-01 is 20 on 2020-03-01.
// A t before the birth date yields 0.
func (p *Person) AgeAt(t time.Time) int {
	b := p.BirthDate
	years := t.Year() - b.Year()
	if t.Month() < b.Month() || (t.Month() == b.Month() && t.Day() < b.Day()) {
		years--
	}
	return max(years, 0)
}

// now is swapped in tests.
var now = time.Now

// Age returns the age at death for deceased people, otherwise the age today.
// Today is the UTC date, matching how dates are loaded.
func (p *Person) Age() int {
	if p.DeathDate != nil {
		return p.AgeAt(*p.DeathDate)
	}
	return p.AgeAt(now().UTC())
}
