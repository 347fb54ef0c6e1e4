package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/pdxmph/contact-form/internal/app"
	"github.com/pdxmph/contact-form/internal/contacts"
	"github.com/pdxmph/contact-form/internal/export"
)

// NoticeDuration is how long a success notice stays on screen
const NoticeDuration = 2 * time.Second

// Model represents the main application state
type Model struct {
	store     *contacts.Store
	state     app.State
	exportDir string

	width  int
	height int

	// Form inputs, one per contact field
	inputs []textinput.Model
	focus  int

	// Manage view selection, tracked by record ID so it follows the record
	selected   int
	selectedID string

	// Timed success notice
	notice    string
	noticeSeq int

	// Blocking error modal; swallows input until dismissed
	modal *modal
}

type modal struct {
	title string
	text  string
}

// noticeExpiredMsg clears the notice it was scheduled for
type noticeExpiredMsg struct {
	seq int
}

// Options configures a new Model
type Options struct {
	// ExportDir receives contacts.csv / contacts.json
	ExportDir string

	// LoadErr is a recoverable error from loading the store, shown on start
	LoadErr error
}

// Styles
var (
	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// New creates a new application model
func New(store *contacts.Store, opts Options) Model {
	inputs := make([]textinput.Model, contacts.FieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
		inputs[i].CharLimit = 200
		inputs[i].Prompt = ""
		inputs[i].Placeholder = contacts.Field(i).Label()
	}
	inputs[0].Focus()

	m := Model{
		store:     store,
		state:     app.New(),
		exportDir: opts.ExportDir,
		inputs:    inputs,
	}
	m.syncSelection()

	if opts.LoadErr != nil {
		m.modal = &modal{
			title: "Storage Problem",
			text:  opts.LoadErr.Error(),
		}
	}

	return m
}

// State returns the controller state
func (m Model) State() app.State {
	return m.state
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case noticeExpiredMsg:
		// A newer notice owns the screen; leave it alone
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Error modal handling
		if m.modal != nil {
			switch msg.String() {
			case "enter", "esc", " ":
				m.modal = nil
			}
			return m, nil
		}

		// Function keys navigate from anywhere
		switch msg.String() {
		case "f1":
			return m.navigate(app.ViewNew)
		case "f2":
			return m.navigate(app.ViewManage)
		case "f3":
			return m.navigate(app.ViewAbout)
		}

		switch m.state.View {
		case app.ViewNew:
			return m.updateForm(msg)
		case app.ViewManage:
			return m.updateManage(msg)
		default:
			return m.updateAbout(msg)
		}
	}

	// Cursor blinks and other input messages go to the focused field
	if m.state.View == app.ViewNew {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	return m, nil
}

// updateForm handles keys in the New Entry view
func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return m.submit()

	case "enter":
		if m.focus == len(m.inputs)-1 {
			return m.submit()
		}
		return m.focusField(m.focus + 1)

	case "tab", "down":
		return m.focusField((m.focus + 1) % len(m.inputs))

	case "shift+tab", "up":
		return m.focusField((m.focus + len(m.inputs) - 1) % len(m.inputs))

	case "esc":
		// Cancel is only offered while editing
		if m.state.IsEditing() {
			m.state = m.state.Cancel()
			m.loadDraft()
			return m.focusField(0)
		}
		return m, nil
	}

	// Pass other keys to the focused input
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.state = m.state.SetField(contacts.Field(m.focus), m.inputs[m.focus].Value())
	return m, cmd
}

// updateManage handles keys in the Manage Entries view
func (m Model) updateManage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "1":
		return m.navigate(app.ViewNew)
	case "3":
		return m.navigate(app.ViewAbout)

	case "j", "down":
		if m.selected < m.store.Len()-1 {
			m.selected++
			m.rememberSelection()
		}

	case "k", "up":
		if m.selected > 0 {
			m.selected--
			m.rememberSelection()
		}

	case "e", "enter":
		record, err := m.store.At(m.selected)
		if err != nil {
			return m, nil
		}
		m.state = m.state.Edit(m.selected, record)
		m.loadDraft()
		return m.focusField(0)

	case "d":
		if m.store.Len() == 0 {
			return m, nil
		}
		state, err := app.Delete(m.state, m.store, m.selected)
		if err != nil {
			m.showError("Delete Failed", err)
			return m, nil
		}
		m.state = state
		m.loadDraft()
		m.syncSelection()

	case "c":
		return m.export("csv")

	case "J":
		return m.export("json")
	}

	return m, nil
}

// updateAbout handles keys in the About view
func (m Model) updateAbout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		return m.navigate(app.ViewNew)
	case "2":
		return m.navigate(app.ViewManage)
	}
	return m, nil
}

// navigate switches view and moves keyboard focus with it
func (m Model) navigate(v app.View) (tea.Model, tea.Cmd) {
	m.state = m.state.Navigate(v)
	if v == app.ViewNew {
		return m.focusField(m.focus)
	}
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.syncSelection()
	return m, nil
}

// focusField focuses input i and blurs the rest
func (m Model) focusField(i int) (tea.Model, tea.Cmd) {
	m.setFocus(i)
	return m, textinput.Blink
}

func (m *Model) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

// submit commits the draft and schedules the notice dismissal
func (m Model) submit() (tea.Model, tea.Cmd) {
	state, n, err := app.Submit(m.state, m.store)
	if err != nil {
		if app.IsValidationError(err) {
			m.modal = &modal{
				title: "Invalid Input",
				text:  fmt.Sprintf("All fields must be at least %d characters long.", contacts.MinFieldLength),
			}
		} else {
			m.showError("Save Failed", err)
		}
		return m, nil
	}

	m.state = state
	m.loadDraft()
	m.syncSelection()
	m.setFocus(0)
	return m.flash(n.Title + " " + n.Text)
}

// export writes the current list in format to the export directory
func (m Model) export(format string) (tea.Model, tea.Cmd) {
	records := m.store.List()
	path, err := export.Write(m.exportDir, format, records)
	if err != nil {
		m.showError("Export Failed", err)
		return m, nil
	}
	return m.flash(fmt.Sprintf("Exported %d contacts to %s", len(records), path))
}

// flash shows text as the notice and schedules its expiry
func (m Model) flash(text string) (tea.Model, tea.Cmd) {
	m.noticeSeq++
	m.notice = text
	seq := m.noticeSeq
	return m, tea.Tick(NoticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (m *Model) showError(title string, err error) {
	log.Error().Err(err).Str("title", title).Msg("action failed")
	m.modal = &modal{title: title, text: err.Error()}
}

// loadDraft copies the draft into the form inputs
func (m *Model) loadDraft() {
	for i := range m.inputs {
		m.inputs[i].SetValue(m.state.Draft.Get(contacts.Field(i)))
	}
}

// rememberSelection records the ID of the selected record
func (m *Model) rememberSelection() {
	m.selectedID = ""
	if c, err := m.store.At(m.selected); err == nil {
		m.selectedID = c.ID
	}
}

// syncSelection moves the selection to the remembered record if it still
// exists, otherwise keeps the index within bounds
func (m *Model) syncSelection() {
	if i := m.store.IndexOf(m.selectedID); i >= 0 {
		m.selected = i
		return
	}
	if m.selected >= m.store.Len() {
		m.selected = m.store.Len() - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.rememberSelection()
}
