package dialog

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	dirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	authStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.state.Title(m.storeName)))
	b.WriteString("\n")
	b.WriteString(pathStyle.Render(displayPath(m.state.Path)))
	b.WriteString("\n\n")

	if m.state.Authorizing {
		b.WriteString(authStyle.Render("Waiting for authorization in your browser."))
		b.WriteString("\n")
		b.WriteString(emptyStyle.Render("Press 'o' to show the window again, esc to cancel."))
		b.WriteString("\n")
	}

	switch {
	case m.state.Loading:
		b.WriteString(m.spin.View())
		b.WriteString(" Loading files...")
		b.WriteString("\n")

	case len(m.state.Files) == 0 && !m.state.Authorizing:
		b.WriteString(emptyStyle.Render("This folder is empty."))
		b.WriteString("\n")

	default:
		m.renderList(&b)
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m *Model) renderList(b *strings.Builder) {
	rows := m.listHeight()
	top := listWindow(m.cursor, len(m.state.Files), rows)

	for i := top; i < len(m.state.Files) && i < top+rows; i++ {
		entry := m.state.Files[i]

		name := entry.Name
		if entry.IsDir() {
			name += "/"
		}
		name = runewidth.Truncate(name, max(m.width-4, 10), "…")

		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + name))
		} else if entry.IsDir() {
			b.WriteString("  " + dirStyle.Render(name))
		} else {
			b.WriteString("  " + name)
		}

		b.WriteString("\n")
	}
}

// listHeight is the number of file rows that fit under the header and
// above the help footer.
func (m *Model) listHeight() int {
	reserved := 6
	if m.state.Authorizing {
		reserved += 2
	}

	return max(m.height-reserved, 3)
}

// listWindow returns the first visible index so the cursor stays inside
// a rows-sized window.
func listWindow(cursor, total, rows int) int {
	if total <= rows {
		return 0
	}

	top := cursor - rows/2
	if top < 0 {
		top = 0
	}
	if top > total-rows {
		top = total - rows
	}

	return top
}

// displayPath shows the root as a bare slash.
func displayPath(path string) string {
	if path == "" {
		return "/"
	}

	return path
}
