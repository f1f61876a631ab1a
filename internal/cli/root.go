package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/tracker/internal/backup"
	"github.com/julianstephens/tracker/internal/config"
	"github.com/julianstephens/tracker/internal/logger"
	"github.com/julianstephens/tracker/internal/session"
	"github.com/julianstephens/tracker/internal/storage"
	"github.com/julianstephens/tracker/internal/utils"
)

type Context struct {
	Store        storage.Provider
	Config       config.Config
	SettingsPath string
	Location     *time.Location

	session *session.Session
}

// Session returns the session over Store, reading its contents on first use.
// The store must already be loaded.
func (c *Context) Session() (*session.Session, error) {
	if c.session != nil {
		return c.session, nil
	}
	s := session.New(c.Store, session.Options{
		Location:   c.Location,
		IdealMatch: c.Config.IdealMatch(),
	})
	if err := s.Load(); err != nil {
		return nil, err
	}
	c.session = s
	return s, nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if storage.DetectBackend(c.Store.GetConfigPath()) != storage.BackendSQLite {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath(), c.Config.MaxBackups())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseDate resolves a YYYY-MM-DD date, "today", "yesterday" or "tomorrow"
// in the context location. An empty string means today.
func (c *Context) ParseDate(s string) (time.Time, error) {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	today := utils.StartOfDay(time.Now().In(loc))

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	date, err := utils.ParseDateInLocation(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return date, nil
}
