package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ANSI 256 palette.
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleDim     = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue   = lipgloss.NewStyle().Foreground(colorText)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorAccent)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand = lipgloss.NewStyle().Foreground(colorLink)
	styleHeader  = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	styleKey     = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
)

const (
	iconArrow  = "→"
	iconCached = "cached"
	iconFresh  = "fresh"
)

// A mark prefixes a one-line status message.
type mark struct {
	glyph string
	style lipgloss.Style
}

var (
	markSuccess = mark{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	markWarning = mark{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	markInfo    = mark{"›", lipgloss.NewStyle().Foreground(colorMuted)}
)

func (c *CLI) status(m mark, text string) {
	fmt.Fprintf(c.out, "%s %s\n", m.style.Render(m.glyph), text)
}

func (c *CLI) printSuccess(format string, args ...any) {
	c.status(markSuccess, fmt.Sprintf(format, args...))
}

func (c *CLI) printWarning(format string, args ...any) {
	c.status(markWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (c *CLI) printInfo(format string, args ...any) {
	c.status(markInfo, fmt.Sprintf(format, args...))
}

func (c *CLI) printDetail(format string, args ...any) {
	fmt.Fprintf(c.out, "  %s\n", StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a path that was written.
func (c *CLI) printFile(path string) {
	fmt.Fprintf(c.out, "  %s %s\n", StyleDim.Render(iconArrow), StyleValue.Render(path))
}

func (c *CLI) printKeyValue(key, value string) {
	fmt.Fprintf(c.out, "%s %s\n", styleKey.Render(key), StyleValue.Render(value))
}

// printSummary reports family size and whether the output was cached. A
// full cache hit never loads the family, so zero counts are left out.
func (c *CLI) printSummary(members, relations int, cached bool) {
	var parts []string
	for _, n := range []struct {
		count int
		noun  string
	}{{members, "members"}, {relations, "relations"}} {
		if n.count > 0 {
			parts = append(parts, StyleDim.Render(fmt.Sprintf("%d %s", n.count, n.noun)))
		}
	}
	state := lipgloss.NewStyle().Foreground(colorMuted).Render(iconFresh)
	if cached {
		state = lipgloss.NewStyle().Foreground(colorOK).Render(iconCached)
	}
	parts = append(parts, state)
	fmt.Fprintf(c.out, "  %s\n", strings.Join(parts, StyleDim.Render(" · ")))
}

func (c *CLI) printNextStep(description, cmd string) {
	fmt.Fprintf(c.out, "%s %s\n", StyleDim.Render(description+":"), styleCommand.Render(cmd))
}

// printTable draws a bordered table. Columns listed in numeric are
// right-aligned.
func (c *CLI) printTable(headers []string, rows [][]string, numeric ...int) {
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row < 0: // header
				return cell.Inherit(styleHeader)
			case slices.Contains(numeric, col):
				return cell.Align(lipgloss.Right).Foreground(colorAccent)
			}
			return cell
		})
	fmt.Fprintln(c.out, t.Render())
}

// formatKm keeps about three significant digits.
func formatKm(km float64) string {
	prec := 0
	if km < 10 {
		prec = 2
	} else if km < 1000 {
		prec = 1
	}
	return fmt.Sprintf("%.*f km", prec, km)
}
