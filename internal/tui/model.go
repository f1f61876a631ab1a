package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/observer"
	"github.com/julianstephens/tracker/internal/scheduler"
	"github.com/julianstephens/tracker/internal/session"
	"github.com/julianstephens/tracker/internal/stats"
	"github.com/julianstephens/tracker/internal/tui/components/trackerlist"
)

type SessionState int

const (
	StateList SessionState = iota
	StateAddTracker
	StateConfirmDelete
)

// changeCounter is bumped by the observer so Update knows to re-read the session.
type changeCounter struct {
	n int
}

type Model struct {
	session     *session.Session
	state       SessionState
	keys        KeyMap
	help        help.Model
	list        trackerlist.Model
	date        time.Time
	filter      scheduler.Filter
	form        *huh.Form
	trackerForm *TrackerFormModel
	deleteID    string
	changes     *changeCounter
	seen        int
	token       int
	summary     stats.Summary
	err         error
	quitting    bool
	width       int
	height      int
}

// NewModel opens on today, or on the Monday of this week when startToday is false.
func NewModel(sess *session.Session, startToday bool) Model {
	date := sess.Today()
	if !startToday {
		offset := int(models.WeekDayOf(date)) - int(models.Monday)
		date = date.AddDate(0, 0, -offset)
	}

	changes := &changeCounter{}
	token := sess.Observers.Register(func(observer.Event) { changes.n++ })

	m := Model{
		session: sess,
		state:   StateList,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		list:    trackerlist.New(nil, 80, 20),
		date:    date,
		filter:  scheduler.FilterAll,
		changes: changes,
		token:   token,
	}
	m.refresh()
	return m
}

// Close detaches the model from session notifications.
func (m Model) Close() {
	m.session.Observers.Unregister(m.token)
}

// refresh rebuilds the visible rows and statistics for the selected day.
func (m *Model) refresh() {
	var items []trackerlist.Item
	for _, c := range m.session.Day(m.date, m.filter, "") {
		for _, t := range c.Trackers {
			items = append(items, trackerlist.Item{
				Tracker:   t,
				Category:  c.Title,
				Completed: m.session.Scheduler.IsCompleted(t, m.date),
				Count:     m.session.Ledger.Count(t.ID),
			})
		}
	}
	m.list.SetItems(items)
	m.summary = m.session.Summary()
	m.seen = m.changes.n
}

func (m *Model) setDate(d time.Time) {
	m.date = d
	m.err = nil
	m.refresh()
}

func (m Model) ShortHelp() []key.Binding {
	keys := m.keys.ShortHelp()
	if m.state == StateList {
		list := trackerlist.DefaultKeyMap()
		keys = append([]key.Binding{list.Toggle, list.Add, list.Pin, list.Delete}, keys...)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	list := trackerlist.DefaultKeyMap()
	return append(m.keys.FullHelp(), []key.Binding{list.Toggle, list.Add, list.Pin, list.Delete})
}

func (m Model) Init() tea.Cmd {
	return m.list.Init()
}
