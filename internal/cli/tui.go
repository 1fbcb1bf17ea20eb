package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/kintree/pkg/core/family"
)

var (
	listDimStyle     = lipgloss.NewStyle().Foreground(colorFaint)
	listCurrentStyle = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
)

// =============================================================================
// PersonPicker - Interactive member selection
// =============================================================================

// PersonPicker is the bubbletea model for choosing a family member. Typing
// filters the list by name; enter selects.
type PersonPicker struct {
	Title    string
	People   []*family.Node
	Cursor   int
	Offset   int
	Height   int
	Filter   string
	Selected *family.Node

	visible []*family.Node
}

// NewPersonPicker creates a picker over people in the given order.
func NewPersonPicker(title string, people []*family.Node) PersonPicker {
	m := PersonPicker{Title: title, People: people, Height: 15}
	m.visible = people
	return m
}

func (m PersonPicker) Init() tea.Cmd {
	return nil
}

func (m PersonPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			m.move(-1)
		case tea.KeyDown:
			m.move(1)
		case tea.KeyEnter:
			if len(m.visible) > 0 {
				m.Selected = m.visible[m.Cursor]
				return m, tea.Quit
			}
		case tea.KeyBackspace:
			if m.Filter != "" {
				m.Filter = m.Filter[:len(m.Filter)-1]
				m.refilter()
			}
		case tea.KeySpace:
			m.Filter += " "
			m.refilter()
		case tea.KeyRunes:
			m.Filter += string(msg.Runes)
			m.refilter()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-7, 5)
	}
	return m, nil
}

func (m *PersonPicker) move(delta int) {
	m.Cursor = min(max(m.Cursor+delta, 0), max(len(m.visible)-1, 0))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *PersonPicker) refilter() {
	q := strings.ToLower(m.Filter)
	m.visible = m.visible[:0:0]
	for _, n := range m.People {
		if strings.Contains(strings.ToLower(n.Value.FullName()), q) {
			m.visible = append(m.visible, n)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func (m PersonPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  type to filter  esc quit"))
	b.WriteString("\n")
	if m.Filter != "" {
		b.WriteString(StyleNumber.Render("filter: " + m.Filter))
	}
	b.WriteString("\n")

	end := min(m.Offset+m.Height, len(m.visible))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.visible[i].Value
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		died := "—"
		if p.DeathDate != nil {
			died = p.DeathDate.Format("2006")
		}
		rows = append(rows, []string{cursor, p.FullName(), p.BirthDate.Format("2006"), died,
			fmt.Sprintf("%.2f, %.2f", p.Latitude, p.Longitude)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "Name", "Born", "Died", "Location").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return listCurrentStyle
			}
			if col >= 2 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.visible)), len(m.visible))))

	return b.String()
}

// pickPerson runs the picker and returns the chosen member, or false if the
// user quit without choosing.
func pickPerson(title string, people []*family.Node) (*family.Node, bool, error) {
	final, err := tea.NewProgram(NewPersonPicker(title, people)).Run()
	if err != nil {
		return nil, false, fmt.Errorf("picker: %w", err)
	}
	m := final.(PersonPicker)
	return m.Selected, m.Selected != nil, nil
}
