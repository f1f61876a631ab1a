package trackerlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/utils"
)

type AddTrackerMsg struct{}

type ToggleMsg struct {
	ID string
}

type PinMsg struct {
	ID     string
	Pinned bool
}

type DeleteTrackerMsg struct {
	ID string
}

type Item struct {
	Tracker   models.Tracker
	Category  string
	Completed bool
	Count     int
}

func (i Item) Title() string {
	mark := "○"
	if i.Completed {
		mark = "✓"
	}
	if i.Tracker.Emoji != "" {
		return fmt.Sprintf("%s %s %s", mark, i.Tracker.Emoji, i.Tracker.Name)
	}
	return fmt.Sprintf("%s %s", mark, i.Tracker.Name)
}

func (i Item) Description() string {
	days := "days"
	if i.Count == 1 {
		days = "day"
	}
	return fmt.Sprintf("%s | %s | %d %s", i.Category, utils.FormatRecurrence(i.Tracker.Recurrence), i.Count, days)
}

func (i Item) FilterValue() string { return i.Tracker.Name }

func (i Item) pinned() bool {
	return models.TrackerCategory{Title: i.Category}.IsPinned()
}

type KeyMap struct {
	Toggle key.Binding
	Add    key.Binding
	Pin    key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle done"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pin/unpin"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Trackers"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Pin, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Pin, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// SetItems replaces the rows and keeps the cursor on the same tracker when
// it is still listed.
func (m *Model) SetItems(items []Item) {
	selected := ""
	if it, ok := m.list.SelectedItem().(Item); ok {
		selected = it.Tracker.ID
	}
	m.list.SetItems(toListItems(items))
	for i, it := range items {
		if it.Tracker.ID == selected {
			m.list.Select(i)
			break
		}
	}
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Selected() (Item, bool) {
	it, ok := m.list.SelectedItem().(Item)
	return it, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddTrackerMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleMsg{ID: i.Tracker.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Pin):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return PinMsg{ID: i.Tracker.ID, Pinned: i.pinned()} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteTrackerMsg{ID: i.Tracker.ID} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}
