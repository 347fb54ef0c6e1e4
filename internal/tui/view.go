package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdxmph/contact-form/internal/app"
	"github.com/pdxmph/contact-form/internal/contacts"
)

const sidebarWidth = 22

// EmptyListMessage is shown in the manage view when there are no records
const EmptyListMessage = "No entries yet. Add some from the New Entry section."

// View renders the UI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Overlay the error modal if one is pending
	if m.modal != nil {
		return m.renderModal()
	}

	height := m.height - 3
	mainWidth := m.width - sidebarWidth - 4

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		borderStyle.Width(sidebarWidth).Height(height).Render(m.renderSidebar()),
		borderStyle.Width(mainWidth).Height(height).Render(m.renderMain(mainWidth, height)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderHelp())
}

// renderSidebar renders the navigation list
func (m Model) renderSidebar() string {
	lines := []string{
		headerStyle.Render("Contact Manager"),
		strings.Repeat("─", sidebarWidth-2),
	}

	for i, v := range app.Views {
		line := fmt.Sprintf(" %d %s", i+1, v.Title())
		if v == m.state.View {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderMain renders the active view with the notice line above it
func (m Model) renderMain(width, height int) string {
	var notice string
	if m.notice != "" {
		notice = noticeStyle.MaxWidth(width).Render("✓ "+m.notice) + "\n\n"
		height -= 2
	}

	var body string
	switch m.state.View {
	case app.ViewNew:
		body = m.renderForm()
	case app.ViewManage:
		body = m.renderManage(width, height)
	case app.ViewAbout:
		body = renderAbout(width)
	}

	return notice + body
}

// renderForm renders the New Entry form
func (m Model) renderForm() string {
	var lines []string
	lines = append(lines, headerStyle.Render("New Entry"))
	if m.state.IsEditing() {
		lines = append(lines, labelStyle.Render(fmt.Sprintf("Editing entry %d", m.state.Editing+1)))
	}
	lines = append(lines, "")

	for i := range m.inputs {
		label := fmt.Sprintf("%-12s", contacts.Field(i).Label()+":")
		var value string
		if i == m.focus {
			value = m.inputs[i].View()
		} else {
			value = m.inputs[i].Value()
			if value == "" {
				value = labelStyle.Render(m.inputs[i].Placeholder)
			}
		}
		lines = append(lines, label+" "+value)
		lines = append(lines, "")
	}

	button := "[ Submit ]"
	if m.state.IsEditing() {
		button = "[ Update ]  [ Cancel (esc) ]"
	}
	lines = append(lines, button)

	return strings.Join(lines, "\n")
}

// renderManage renders the entries table, scrolled to keep the selection
// within height
func (m Model) renderManage(width, height int) string {
	var lines []string
	lines = append(lines, headerStyle.Render("Manage Entries"))
	lines = append(lines, labelStyle.Render("c: Export to CSV • J: Export to JSON"))
	lines = append(lines, "")

	records := m.store.List()
	if len(records) == 0 {
		lines = append(lines, EmptyListMessage)
		return strings.Join(lines, "\n")
	}

	// Size each column to its widest cell
	widths := make([]int, contacts.FieldCount)
	for f := contacts.Field(0); f < contacts.FieldCount; f++ {
		widths[f] = lipgloss.Width(f.Label())
	}
	for _, c := range records {
		for f, v := range c.Fields() {
			if w := lipgloss.Width(v); w > widths[f] {
				widths[f] = w
			}
		}
	}

	header := make([]string, contacts.FieldCount)
	for f := contacts.Field(0); f < contacts.FieldCount; f++ {
		header[f] = f.Label()
	}
	// Calculate visible range
	visibleHeight := max(height-len(lines)-2, 1) // account for header
	startIdx := 0
	if m.selected >= visibleHeight {
		startIdx = m.selected - visibleHeight + 1
	}

	// Rows are cut rather than wrapped so each record stays on one line
	rowStyle := lipgloss.NewStyle().MaxWidth(max(width-2, 1))

	lines = append(lines, headerStyle.Render(rowStyle.Render(formatRow(header, widths))))
	lines = append(lines, strings.Repeat("─", max(width-2, 0)))

	for i := startIdx; i < len(records) && i < startIdx+visibleHeight; i++ {
		line := rowStyle.Render(formatRow(records[i].Fields(), widths))
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// formatRow pads cells to widths and joins them with two spaces
func formatRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = cell + strings.Repeat(" ", max(widths[i]-lipgloss.Width(cell), 0))
	}
	return strings.Join(padded, "  ")
}

// renderAbout renders the static About text
func renderAbout(width int) string {
	intro := "A contact management application for the terminal. It lets you create, " +
		"view, edit, and delete contact entries including first name, last name, " +
		"company, city, and state. All data is stored locally on this machine."

	lines := []string{headerStyle.Render("About"), ""}
	lines = append(lines, wrapText(intro, width-4)...)
	lines = append(lines,
		"",
		"Features:",
		"  • Add new contact entries",
		"  • Manage existing entries with edit and delete options",
		"  • Export entries to CSV or JSON",
		"  • Data persistence in a local database",
	)
	return strings.Join(lines, "\n")
}

// renderHelp renders the help line
func (m Model) renderHelp() string {
	switch m.state.View {
	case app.ViewNew:
		help := " Tab/↓: next • Shift+Tab/↑: prev • Enter: next/submit • Ctrl+S: submit"
		if m.state.IsEditing() {
			help += " • Esc: cancel edit"
		}
		return help + " • F1-F3: views • Ctrl+C: quit"
	case app.ViewManage:
		return " j/k: navigate • e: edit • d: delete • c: CSV • J: JSON • 1-3: views • q: quit"
	default:
		return " 1-3: views • q: quit"
	}
}

// renderModal renders the blocking error dialog
func (m Model) renderModal() string {
	var lines []string
	lines = append(lines, errorTitleStyle.Render(m.modal.title))
	lines = append(lines, "")
	lines = append(lines, wrapText(m.modal.text, 50)...)
	lines = append(lines, "")
	lines = append(lines, "Press Enter to continue")

	// Create a bordered box and center it
	content := strings.Join(lines, "\n")
	box := borderStyle.
		Padding(1).
		Width(56).
		Background(lipgloss.Color("235")).
		Render(content)

	// Center the box on the screen
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(box)
}

// wrapText wraps text to fit within the specified width
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{}
	}

	currentLine := words[0]
	for _, word := range words[1:] {
		if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}
