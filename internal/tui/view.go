package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tracker/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddTracker:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = m.viewList()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	title := m.date.Format("Monday, " + constants.DateFormat)
	if m.date.Equal(m.session.Today()) {
		title += " (today)"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render(title),
		filterStyle.Render("filter: "+m.filter.String()),
	)
}

func (m Model) viewList() string {
	if m.list.Len() == 0 {
		return docStyle.Render("Nothing due on this day.")
	}
	return docStyle.Render(m.list.View())
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return errorStyle.Render(m.err.Error())
	}
	s := m.summary
	return statusStyle.Render(fmt.Sprintf("best streak %d | ideal days %d | completed %d | average %d",
		s.BestStreak, s.IdealDays, s.CompletedCount, s.AverageCompletion))
}

func (m Model) viewConfirmDelete() string {
	name := m.deleteID
	if t, ok := m.session.Organizer.Tracker(m.deleteID); ok {
		name = t.Name
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q? Its history is kept.", name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
