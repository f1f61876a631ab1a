package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tracker/internal/logger"
	"github.com/julianstephens/tracker/internal/tui/components/trackerlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.help.Width = size.Width
		m.list.SetSize(size.Width-4, size.Height-8)
	}

	var cmd tea.Cmd
	switch m.state {
	case StateAddTracker:
		cmd = m.updateForm(msg)
	case StateConfirmDelete:
		m.updateConfirmDelete(msg)
	default:
		cmd = m.updateList(msg)
	}

	if m.changes.n != m.seen {
		m.refresh()
	}
	return m, cmd
}

func (m *Model) updateList(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return tea.Quit
		case key.Matches(msg, m.keys.PrevDay):
			m.setDate(m.date.AddDate(0, 0, -1))
			return nil
		case key.Matches(msg, m.keys.NextDay):
			m.setDate(m.date.AddDate(0, 0, 1))
			return nil
		case key.Matches(msg, m.keys.Today):
			m.setDate(m.session.Today())
			return nil
		case key.Matches(msg, m.keys.Filter):
			m.filter = m.filter.Next()
			m.refresh()
			return nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return nil
		}

	case trackerlist.ToggleMsg:
		if _, _, err := m.session.Toggle(msg.ID, m.date); err != nil {
			m.fail("toggle failed", err)
		}
		return nil

	case trackerlist.PinMsg:
		var err error
		if msg.Pinned {
			err = m.session.Organizer.Unpin(msg.ID, "")
		} else {
			err = m.session.Organizer.Pin(msg.ID)
		}
		if err != nil {
			m.fail("pin failed", err)
		}
		return nil

	case trackerlist.DeleteTrackerMsg:
		m.deleteID = msg.ID
		m.state = StateConfirmDelete
		return nil

	case trackerlist.AddTrackerMsg:
		m.trackerForm = &TrackerFormModel{}
		m.form = NewTrackerForm(m.trackerForm)
		m.state = StateAddTracker
		return m.form.Init()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateList
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		tracker, category, err := m.trackerForm.Build()
		if err == nil {
			_, err = m.session.Organizer.AddTracker(tracker, category)
		}
		if err != nil {
			m.fail("add tracker failed", err)
		} else {
			m.err = nil
		}
		m.state = StateList
	case huh.StateAborted:
		m.state = StateList
	}
	return cmd
}

func (m *Model) updateConfirmDelete(msg tea.Msg) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if err := m.session.Organizer.DeleteTracker(m.deleteID); err != nil {
			m.fail("delete failed", err)
		}
		m.deleteID = ""
		m.state = StateList
	case key.Matches(keyMsg, m.keys.Cancel):
		m.deleteID = ""
		m.state = StateList
	}
}

func (m *Model) fail(msg string, err error) {
	logger.Error(msg, "error", err)
	m.err = fmt.Errorf("%s: %w", msg, err)
}
