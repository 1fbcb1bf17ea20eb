package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/kintree/pkg/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleRecords() []Record {
	death := date(2010, time.June, 4)
	return []Record{
		{FamilyName: "Mora", GivenName: "Ana", NationalID: "1-0001", Latitude: 9.93, Longitude: -84.08, BirthDate: date(1950, time.March, 1)},
		{FamilyName: "Solis", GivenName: "Luis", NationalID: "1-0002", Latitude: 10.01, Longitude: -84.21, BirthDate: date(1948, time.May, 12), DeathDate: &death},
		{FamilyName: "Mora", GivenName: "Sofia", NationalID: "1-0003", Latitude: 40.41, Longitude: -3.70, BirthDate: date(1979, time.January, 30)},
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"family.json", FormatJSON},
		{"family.yaml", FormatYAML},
		{"FAMILY.YML", FormatYAML},
		{"family", FormatJSON},
		{"dir.yaml/family.txt", FormatJSON},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRecordsPreserveOrder(t *testing.T) {
	for format := range ValidFormats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteRecords(sampleRecords(), format, &buf); err != nil {
				t.Fatalf("WriteRecords: %v", err)
			}
			got, err := ReadRecords(&buf, format)
			if err != nil {
				t.Fatalf("ReadRecords: %v", err)
			}
			want := sampleRecords()
			if len(got) != len(want) {
				t.Fatalf("got %d records, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i].NationalID != want[i].NationalID {
					t.Errorf("record %d = %s, want %s", i, got[i].NationalID, want[i].NationalID)
				}
				if !got[i].BirthDate.Equal(want[i].BirthDate) {
					t.Errorf("record %d birth = %v, want %v", i, got[i].BirthDate, want[i].BirthDate)
				}
			}
			if got[0].DeathDate != nil {
				t.Error("living person gained a death date")
			}
			if got[1].DeathDate == nil || !got[1].DeathDate.Equal(*want[1].DeathDate) {
				t.Errorf("death date = %v, want %v", got[1].DeathDate, want[1].DeathDate)
			}
		})
	}
}

func TestWriteRecordsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecords(nil, FormatJSON, &buf); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("WriteRecords(nil) = %q, want []", buf.String())
	}
}

func TestRecordsUnsupportedFormat(t *testing.T) {
	if err := WriteRecords(sampleRecords(), "xml", &bytes.Buffer{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("WriteRecords error = %v, want INVALID_FORMAT", err)
	}
	if _, err := ReadRecords(strings.NewReader("[]"), "xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ReadRecords error = %v, want INVALID_FORMAT", err)
	}
}

func TestReadRecordsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"malformed", `[{"given_name":`, errors.ErrCodeInvalidFormat},
		{"latitude out of range", `[{"given_name":"A","latitude":91,"birth_date":"2000-01-01T00:00:00Z"}]`, errors.ErrCodeInvalidInput},
		{"death before birth", `[{"given_name":"A","birth_date":"2000-01-01T00:00:00Z","death_date":"1999-01-01T00:00:00Z"}]`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRecords(strings.NewReader(tt.input), FormatJSON)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.yaml")
	if err := ExportRecords(sampleRecords(), path); err != nil {
		t.Fatalf("ExportRecords: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "given_name: Ana") {
		t.Errorf("expected YAML output, got:\n%s", data)
	}
	got, err := ImportRecords(path)
	if err != nil {
		t.Fatalf("ImportRecords: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d records, want 3", len(got))
	}

	_, err = ImportRecords(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

const sampleDefinition = `
[[person]]
key = "ana"
given_name = "Ana"
family_name = "Mora"
birth_date = 1950-03-01
latitude = 9.93
longitude = -84.08

[[person]]
key = "luis"
given_name = "Luis"
family_name = "Solis"
birth_date = 1948-05-12
death_date = 2010-06-04

[[person]]
key = "sofia"
given_name = "Sofia"
family_name = "Mora"
birth_date = 1979-01-30

[[partner]]
a = "ana"
b = "luis"

[[child]]
parent = "ana"
child = "sofia"
`

func TestReadDefinition(t *testing.T) {
	def, err := ReadDefinition(strings.NewReader(sampleDefinition))
	if err != nil {
		t.Fatalf("ReadDefinition: %v", err)
	}
	if len(def.People) != 3 || len(def.Partners) != 1 || len(def.Children) != 1 {
		t.Fatalf("decoded %d people, %d partners, %d children", len(def.People), len(def.Partners), len(def.Children))
	}

	luis := def.People[1].Record()
	if !luis.BirthDate.Equal(date(1948, time.May, 12)) {
		t.Errorf("birth date = %v", luis.BirthDate)
	}
	if luis.DeathDate == nil || !luis.DeathDate.Equal(date(2010, time.June, 4)) {
		t.Errorf("death date = %v", luis.DeathDate)
	}
	if def.People[0].Record().DeathDate != nil {
		t.Error("ana should have no death date")
	}
}

func TestReadDefinitionInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"malformed", `[[person]`, errors.ErrCodeInvalidFormat},
		{"missing key", "[[person]]\ngiven_name = \"A\"\nbirth_date = 2000-01-01\n", errors.ErrCodeInvalidInput},
		{"duplicate key", "[[person]]\nkey = \"a\"\nbirth_date = 2000-01-01\n[[person]]\nkey = \"a\"\nbirth_date = 2000-01-01\n", errors.ErrCodeInvalidInput},
		{"unknown partner", "[[person]]\nkey = \"a\"\nbirth_date = 2000-01-01\n[[partner]]\na = \"a\"\nb = \"z\"\n", errors.ErrCodeInvalidReference},
		{"unknown child", "[[person]]\nkey = \"a\"\nbirth_date = 2000-01-01\n[[child]]\nparent = \"z\"\nchild = \"a\"\n", errors.ErrCodeInvalidReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDefinition(strings.NewReader(tt.input))
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}
