package render

import "github.com/matzehuels/kintree/pkg/graph"

// Theme is the color set shared by all renderers.
type Theme struct {
	Background string
	Card       string
	Deceased   string
	Border     string
	Text       string
	Muted      string
	Parent     string
	Couple     string
	Highlight  string
}

var (
	Dark = Theme{
		Background: "#1e1e24",
		Card:       "#2d2d38",
		Deceased:   "#24242b",
		Border:     "#6c6c80",
		Text:       "#ececf1",
		Muted:      "#9a9aad",
		Parent:     "#8b8ba0",
		Couple:     "#d98c5f",
		Highlight:  "#f2c14e",
	}
	Light = Theme{
		Background: "#fbfaf7",
		Card:       "#ffffff",
		Deceased:   "#efefea",
		Border:     "#5a5a66",
		Text:       "#1d1d22",
		Muted:      "#6b6b78",
		Parent:     "#55555f",
		Couple:     "#b0552a",
		Highlight:  "#d1495b",
	}
)

// ThemeFor maps a style name to its theme. Unknown names get [Dark].
func ThemeFor(style string) Theme {
	if style == graph.StyleLight {
		return Light
	}
	return Dark
}
