package records

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/ledger"
	"github.com/julianstephens/tracker/internal/scheduler"
	"github.com/julianstephens/tracker/internal/stats"
	"github.com/julianstephens/tracker/internal/utils"
)

type MarkCmd struct {
	Tracker string `arg:"" help:"Tracker ID or name."`
	Date    string `short:"d" help:"Day to toggle (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *MarkCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}

	tracker, transition, err := sess.Toggle(c.Tracker, date)
	if err != nil {
		return err
	}

	day := utils.DayKey(date)
	if transition == ledger.Added {
		fmt.Printf("✓ %s done on %s\n", tracker.Name, day)
	} else {
		fmt.Printf("○ %s cleared on %s\n", tracker.Name, day)
	}
	return nil
}

type DayCmd struct {
	Date   string `arg:"" optional:"" help:"Day to show (YYYY-MM-DD, today, yesterday)." default:"today"`
	Filter string `short:"f" help:"Show all, completed or not-completed trackers." enum:"all,completed,not-completed" default:"all"`
	Query  string `short:"q" help:"Only show trackers whose name contains this text."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	filter, ok := scheduler.ParseFilter(c.Filter)
	if !ok {
		return fmt.Errorf("unknown filter %q", c.Filter)
	}

	fmt.Printf("%s\n\n", date.Format("Monday, "+constants.DateFormat))
	categories := sess.Day(date, filter, c.Query)
	if len(categories) == 0 {
		fmt.Println("Nothing to show.")
		return nil
	}
	for _, category := range categories {
		fmt.Println(category.Title)
		for _, t := range category.Trackers {
			mark := "○"
			if sess.Scheduler.IsCompleted(t, date) {
				mark = "✓"
			}
			name := t.Name
			if t.Emoji != "" {
				name = t.Emoji + " " + name
			}
			fmt.Printf("  %s %s\n", mark, name)
		}
	}
	return nil
}

type StatsCmd struct {
	Format string `help:"Output format." enum:"text,yaml" default:"text"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	summary := sess.Summary()
	if c.Format == "yaml" {
		enc := yaml.NewEncoder(os.Stdout)
		if err := enc.Encode(summary); err != nil {
			return err
		}
		return enc.Close()
	}

	fmt.Printf("Completions:        %d\n", summary.CompletedCount)
	fmt.Printf("Best streak:        %d\n", summary.BestStreak)
	fmt.Printf("Ideal days:         %d (%s)\n", summary.IdealDays, ctx.Config.IdealMatch())
	fmt.Printf("Average completion: %d\n", summary.AverageCompletion)
	return nil
}

type exportTracker struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Emoji     string    `yaml:"emoji,omitempty"`
	Color     string    `yaml:"color,omitempty"`
	Irregular bool      `yaml:"irregular,omitempty"`
	Days      []string  `yaml:"days,omitempty"`
	CreatedAt time.Time `yaml:"created_at"`
}

type exportCategory struct {
	Title    string          `yaml:"title"`
	Trackers []exportTracker `yaml:"trackers"`
}

type exportRecord struct {
	TrackerID string `yaml:"tracker_id"`
	Day       string `yaml:"day"`
}

type exportDocument struct {
	ExportedAt time.Time        `yaml:"exported_at"`
	Categories []exportCategory `yaml:"categories"`
	Records    []exportRecord   `yaml:"records"`
	Summary    stats.Summary    `yaml:"summary"`
}

type ExportCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	doc := exportDocument{
		ExportedAt: time.Now().In(sess.Location()).Truncate(time.Second),
		Summary:    sess.Summary(),
	}
	for _, category := range sess.Organizer.Categories() {
		ec := exportCategory{Title: category.Title, Trackers: []exportTracker{}}
		for _, t := range category.Trackers {
			et := exportTracker{
				ID:        t.ID,
				Name:      t.Name,
				Emoji:     t.Emoji,
				Color:     t.Color,
				Irregular: t.IsIrregular(),
				CreatedAt: t.CreatedAt,
			}
			if days, ok := t.Schedule(); ok {
				for _, d := range days.Days() {
					et.Days = append(et.Days, strings.ToLower(d.ShortName()))
				}
			}
			ec.Trackers = append(ec.Trackers, et)
		}
		doc.Categories = append(doc.Categories, ec)
	}
	for _, r := range sess.Ledger.Records() {
		doc.Records = append(doc.Records, exportRecord{TrackerID: r.TrackerID, Day: r.Day()})
	}

	out := os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if c.Output != "" {
		fmt.Printf("✓ Exported %d categories and %d records to %s\n", len(doc.Categories), len(doc.Records), c.Output)
	}
	return nil
}
