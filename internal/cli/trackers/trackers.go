package trackers

import (
	"fmt"
	"strings"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/tui"
	"github.com/julianstephens/tracker/internal/utils"
)

type TrackerCmd struct {
	Add    AddCmd    `cmd:"" help:"Add a tracker. Prompts for details when no name is given."`
	Edit   EditCmd   `cmd:"" help:"Edit an existing tracker."`
	Delete DeleteCmd `cmd:"" help:"Delete a tracker. Its completion history is kept."`
	Pin    PinCmd    `cmd:"" help:"Move a tracker into the pinned category."`
	Unpin  UnpinCmd  `cmd:"" help:"Move a pinned tracker back to its category."`
	List   ListCmd   `cmd:"" help:"List trackers by category."`
}

// recurrence builds a schedule from the --days and --irregular flags.
func recurrence(days string, irregular bool) (models.Recurrence, error) {
	if irregular {
		return models.Irregular{}, nil
	}
	set, err := utils.ParseWeekdays(days)
	if err != nil {
		return nil, err
	}
	return models.Weekly{Days: set}, nil
}

type AddCmd struct {
	Name      string `arg:"" optional:"" help:"Tracker name."`
	Category  string `short:"c" help:"Category to add the tracker to." default:"general"`
	Days      string `short:"d" help:"Comma-separated weekdays (mon,wed) or 'daily'."`
	Irregular bool   `short:"i" help:"One-off event, due until completed once."`
	Emoji     string `short:"e" help:"Emoji shown next to the name."`
	Color     string `help:"Display color."`
}

func (c *AddCmd) Validate() error {
	if c.Name == "" {
		return nil
	}
	if c.Irregular && c.Days != "" {
		return fmt.Errorf("--days and --irregular cannot be combined")
	}
	if !c.Irregular && c.Days == "" {
		return fmt.Errorf("either --days or --irregular is required")
	}
	return nil
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	var tracker models.Tracker
	category := c.Category
	if c.Name == "" {
		fm := &tui.TrackerFormModel{Category: c.Category}
		if err := tui.NewTrackerForm(fm).Run(); err != nil {
			return err
		}
		tracker, category, err = fm.Build()
		if err != nil {
			return err
		}
	} else {
		rec, err := recurrence(c.Days, c.Irregular)
		if err != nil {
			return err
		}
		tracker, err = models.NewTracker(strings.TrimSpace(c.Name), c.Color, c.Emoji, rec)
		if err != nil {
			return err
		}
	}

	if _, err := sess.Organizer.AddTracker(tracker, category); err != nil {
		return err
	}

	fmt.Printf("Added tracker: %s (%s) to %s\n", tracker.Name, utils.FormatRecurrence(tracker.Recurrence), category)
	fmt.Printf("ID: %s\n", tracker.ID)
	return nil
}

type EditCmd struct {
	Tracker   string `arg:"" help:"Tracker ID or name."`
	Name      string `help:"New name."`
	Category  string `short:"c" help:"Move the tracker to this category."`
	Days      string `short:"d" help:"New weekdays (mon,wed) or 'daily'."`
	Irregular bool   `short:"i" help:"Make the tracker a one-off event."`
	Emoji     string `short:"e" help:"New emoji."`
	Color     string `help:"New display color."`
}

func (c *EditCmd) Validate() error {
	if c.Irregular && c.Days != "" {
		return fmt.Errorf("--days and --irregular cannot be combined")
	}
	if c.Category == constants.PinnedCategoryTitle {
		return fmt.Errorf("use '%s tracker pin' to pin a tracker", constants.AppName)
	}
	return nil
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	tracker, err := sess.Organizer.FindTracker(c.Tracker)
	if err != nil {
		return err
	}

	if c.Name != "" {
		tracker.Name = strings.TrimSpace(c.Name)
	}
	if c.Emoji != "" {
		tracker.Emoji = c.Emoji
	}
	if c.Color != "" {
		tracker.Color = c.Color
	}
	if c.Irregular || c.Days != "" {
		rec, err := recurrence(c.Days, c.Irregular)
		if err != nil {
			return err
		}
		tracker.Recurrence = rec
	}

	if err := sess.Organizer.UpdateTracker(tracker); err != nil {
		return fmt.Errorf("failed to update tracker: %w", err)
	}
	if category := strings.TrimSpace(c.Category); category != "" {
		if _, err := sess.Organizer.AddTracker(tracker, category); err != nil {
			return fmt.Errorf("failed to move tracker: %w", err)
		}
	}

	title, _ := sess.Organizer.CategoryOf(tracker.ID)
	fmt.Printf("Updated tracker: %s (%s) in %s\n", tracker.Name, utils.FormatRecurrence(tracker.Recurrence), title)
	return nil
}

type DeleteCmd struct {
	Tracker string `arg:"" help:"Tracker ID or name."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	tracker, err := sess.Organizer.FindTracker(c.Tracker)
	if err != nil {
		return err
	}
	if err := sess.Organizer.DeleteTracker(tracker.ID); err != nil {
		return fmt.Errorf("failed to delete tracker: %w", err)
	}

	fmt.Printf("Deleted tracker: %s (ID: %s)\n", tracker.Name, tracker.ID)
	if n := sess.Ledger.Count(tracker.ID); n > 0 {
		fmt.Printf("Kept %d completion record(s).\n", n)
	}
	return nil
}

type PinCmd struct {
	Tracker string `arg:"" help:"Tracker ID or name."`
}

func (c *PinCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	tracker, err := sess.Organizer.FindTracker(c.Tracker)
	if err != nil {
		return err
	}
	if err := sess.Organizer.Pin(tracker.ID); err != nil {
		return err
	}

	fmt.Printf("📌 Pinned %s\n", tracker.Name)
	return nil
}

type UnpinCmd struct {
	Tracker string `arg:"" help:"Tracker ID or name."`
	To      string `help:"Category to use when no original category is recorded."`
}

func (c *UnpinCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	tracker, err := sess.Organizer.FindTracker(c.Tracker)
	if err != nil {
		return err
	}
	if err := sess.Organizer.Unpin(tracker.ID, c.To); err != nil {
		return err
	}

	category, _ := sess.Organizer.CategoryOf(tracker.ID)
	fmt.Printf("Unpinned %s, now in %s\n", tracker.Name, category)
	return nil
}

type ListCmd struct {
	Category string `short:"c" help:"Only list this category."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	printed := 0
	for _, category := range sess.Organizer.Categories() {
		if c.Category != "" && category.Title != c.Category {
			continue
		}
		fmt.Printf("%s\n", category.Title)
		if len(category.Trackers) == 0 {
			fmt.Println("  (empty)")
		}
		for _, t := range category.Trackers {
			name := t.Name
			if t.Emoji != "" {
				name = t.Emoji + " " + name
			}
			fmt.Printf("  %s  %s  [%s]  %d done\n", shortID(t.ID), name, utils.FormatRecurrence(t.Recurrence), sess.Ledger.Count(t.ID))
			printed++
		}
	}

	if printed == 0 && c.Category == "" {
		fmt.Println("No trackers found.")
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
