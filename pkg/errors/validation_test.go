package errors

import (
	"math"
	"testing"
	"time"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Ana", false},
		{"accented", "José María", false},
		{"empty", "", false},

		{"too long", string(make([]byte, 300)), true},
		{"newline", "Ana\nMaría", true},
		{"null byte", "Ana\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		wantErr  bool
	}{
		{"origin", 0, 0, false},
		{"san jose", 9.93, -84.08, false},
		{"poles and date line", 90, -180, false},

		{"lat too high", 90.5, 0, true},
		{"lat too low", -91, 0, true},
		{"lon too high", 0, 181, true},
		{"NaN", math.NaN(), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinates(tt.lat, tt.lon)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinates(%v, %v) error = %v, wantErr %v", tt.lat, tt.lon, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("wrong error code: %v", err)
			}
		})
	}
}

func TestValidateLifespan(t *testing.T) {
	birth := time.Date(1950, 3, 1, 0, 0, 0, 0, time.UTC)
	after := birth.AddDate(70, 0, 0)
	before := birth.AddDate(-1, 0, 0)

	if err := ValidateLifespan(birth, nil); err != nil {
		t.Errorf("alive person should validate: %v", err)
	}
	if err := ValidateLifespan(birth, &after); err != nil {
		t.Errorf("death after birth should validate: %v", err)
	}
	if err := ValidateLifespan(birth, &before); err == nil {
		t.Error("death before birth should fail")
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"ana", false},
		{"1-105-0234", false},
		{"ana.maria_2", false},

		{"", true},
		{"-ana", true},
		{"ana maria", true},
		{string(make([]byte, 70)), true},
	}

	for _, tt := range tests {
		err := ValidateKey(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "tree.svg", false},
		{"valid nested", "out/family/tree.json", false},
		{"absolute", "/tmp/tree.svg", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"path traversal", "../../etc/passwd", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidReference,
		ErrCodeCycleRejected,
		ErrCodeTooManyParents,
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidStyle,
		ErrCodeInvalidPath,
		ErrCodeNotFound,
		ErrCodeMemberNotFound,
		ErrCodeFileNotFound,
		ErrCodeStorage,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}

func TestValidateDatasetName(t *testing.T) {
	for _, ok := range []string{"mora", "mora-2024", "v1.2"} {
		if err := ValidateDatasetName(ok); err != nil {
			t.Errorf("ValidateDatasetName(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "../x", "a/b", ".hidden"} {
		if err := ValidateDatasetName(bad); !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateDatasetName(%q) = %v, want INVALID_INPUT", bad, err)
		}
	}
}
