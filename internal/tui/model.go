package tui

import (
	"context"
	"fmt"
	"strings"

	"itemstore/internal/controller"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type focus int

const (
	focusName focus = iota
	focusDescription
	focusList
)

// doneMsg reports the end of a controller request.
type doneMsg struct {
	err error
}

type model struct {
	ctrl *controller.Controller

	name        textinput.Model
	description textinput.Model
	spinner     spinner.Model

	focus  focus
	cursor int
	quit   bool
}

func newModel(ctrl *controller.Controller) model {
	name := textinput.New()
	name.Prompt = "> "
	name.Placeholder = "Enter item name"
	name.CharLimit = 255
	name.Focus()

	description := textinput.New()
	description.Prompt = "> "
	description.Placeholder = "Enter item description"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		ctrl:        ctrl,
		name:        name,
		description: description,
		spinner:     sp,
	}
}

// Run starts the terminal form and blocks until the user quits.
func Run(ctrl *controller.Controller) error {
	defer ctrl.Close()

	_, err := tea.NewProgram(newModel(ctrl), tea.WithAltScreen()).Run()
	return err
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.request(m.ctrl.Mount))
}

func (m model) request(op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{err: op(context.Background())}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.syncInputs()
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quit = true
			return m, tea.Quit
		}

		if m.ctrl.State().PendingDelete != nil {
			return m.updateConfirm(msg)
		}

		if m.focus == focusList {
			return m.updateList(msg)
		}

		return m.updateForm(msg)
	}

	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Confirm):
		return m, m.request(m.ctrl.ConfirmDelete)
	case key.Matches(msg, keys.Decline):
		m.ctrl.AbortDelete()
	}

	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.ctrl.State()

	switch {
	case key.Matches(msg, keys.ListQuit):
		m.quit = true
		return m, tea.Quit
	case key.Matches(msg, keys.Next):
		return m, m.setFocus(focusName)
	case key.Matches(msg, keys.Prev):
		return m, m.setFocus(focusDescription)
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(s.Items)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Edit):
		if m.cursor < len(s.Items) {
			m.ctrl.Edit(s.Items[m.cursor])
			m.syncInputs()
			return m, m.setFocus(focusName)
		}
	case key.Matches(msg, keys.Delete):
		if m.cursor < len(s.Items) {
			m.ctrl.RequestDelete(s.Items[m.cursor])
		}
	case key.Matches(msg, keys.Reload):
		return m, m.request(m.ctrl.Reload)
	case key.Matches(msg, keys.Cancel):
		m.ctrl.Cancel()
		m.syncInputs()
	}

	return m, nil
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Next):
		return m, m.setFocus((m.focus + 1) % 3)
	case key.Matches(msg, keys.Prev):
		return m, m.setFocus((m.focus + 2) % 3)
	case key.Matches(msg, keys.Cancel):
		m.ctrl.Cancel()
		m.syncInputs()
		return m, nil
	case key.Matches(msg, keys.Submit):
		if !m.ctrl.State().CanSubmit() {
			return m, nil
		}
		return m, m.request(m.ctrl.Submit)
	}

	var cmd tea.Cmd
	if m.focus == focusName {
		m.name, cmd = m.name.Update(msg)
		m.ctrl.SetName(m.name.Value())
	} else {
		m.description, cmd = m.description.Update(msg)
		m.ctrl.SetDescription(m.description.Value())
	}

	return m, cmd
}

func (m *model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.name.Blur()
	m.description.Blur()

	switch f {
	case focusName:
		return m.name.Focus()
	case focusDescription:
		return m.description.Focus()
	}

	return nil
}

// syncInputs copies the controller drafts into the text inputs.
func (m *model) syncInputs() {
	s := m.ctrl.State()
	if m.name.Value() != s.Name {
		m.name.SetValue(s.Name)
	}
	if m.description.Value() != s.Description {
		m.description.SetValue(s.Description)
	}
}

func (m *model) clampCursor() {
	n := len(m.ctrl.State().Items)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m model) View() string {
	if m.quit {
		return ""
	}

	s := m.ctrl.State()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Items") + "\n\n")
	b.WriteString(labelStyle.Render("Name") + "\n" + m.name.View() + "\n")
	b.WriteString(labelStyle.Render("Description") + "\n" + m.description.View() + "\n\n")

	action := "Add Item"
	if s.Editing() {
		action = "Update Item"
	}
	switch {
	case s.Loading:
		b.WriteString(m.spinner.View() + " " + mutedStyle.Render("working..."))
	case s.CanSubmit():
		b.WriteString(accentStyle.Render("[enter] " + action))
	default:
		b.WriteString(mutedStyle.Render("[enter] " + action))
	}
	if s.Editing() {
		b.WriteString("  " + mutedStyle.Render("[esc] Cancel"))
	}
	b.WriteString("\n")

	if s.Error != "" {
		b.WriteString("\n" + errorStyle.Render("✖ "+s.Error) + "\n")
	}

	b.WriteString("\n" + m.listView(s) + "\n")

	if s.PendingDelete != nil {
		prompt := fmt.Sprintf("Delete %q? [y/n]", s.PendingDelete.Name)
		b.WriteString("\n" + warnStyle.Render(prompt) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("tab switch focus • enter save • e edit • d delete • r reload • q quit"))

	return panelStyle.Render(b.String())
}

func (m model) listView(s controller.State) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Items List") + "\n")

	if len(s.Items) == 0 {
		if s.Loading {
			b.WriteString(mutedStyle.Render("Loading..."))
		} else {
			b.WriteString(mutedStyle.Render("No items yet. Add one above!"))
		}
		return b.String()
	}

	for i, it := range s.Items {
		line := fmt.Sprintf("%s  %s", labelStyle.Render(it.Name), it.Description)
		if !it.CreatedAt.IsZero() {
			line += "  " + mutedStyle.Render("Created: "+it.CreatedAt.Local().Format("2006-01-02 15:04"))
		}

		prefix := "  "
		if m.focus == focusList && i == m.cursor {
			prefix = selectedStyle.Render("> ")
		}
		b.WriteString(prefix + line + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
