package render

import (
	"context"
	"os/exec"
	"testing"

	"github.com/matzehuels/kintree/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestConvertSVGPassthrough(t *testing.T) {
	out, err := Convert(context.Background(), []byte(tinySVG), FormatSVG, 1)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != tinySVG {
		t.Error("svg should pass through unchanged")
	}
}

func TestConvertUnknownFormat(t *testing.T) {
	_, err := Convert(context.Background(), []byte(tinySVG), "gif", 1)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestConvertRaster(t *testing.T) {
	_, lookErr := exec.LookPath("rsvg-convert")
	for _, format := range []string{FormatPNG, FormatPDF} {
		t.Run(format, func(t *testing.T) {
			out, err := Convert(context.Background(), []byte(tinySVG), format, 2)
			if lookErr != nil {
				if !errors.Is(err, errors.ErrCodeUnsupported) {
					t.Errorf("err = %v, want UNSUPPORTED without rsvg-convert", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(out) == 0 {
				t.Error("empty output")
			}
		})
	}
}
