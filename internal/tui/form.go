package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tracker/internal/models"
)

// TrackerFormModel holds the values bound to the add-tracker form.
type TrackerFormModel struct {
	Name      string
	Emoji     string
	Color     string
	Category  string
	Irregular bool
	Days      []models.WeekDay
}

// Build validates the form values and returns a new tracker and its category.
func (fm *TrackerFormModel) Build() (models.Tracker, string, error) {
	var rec models.Recurrence = models.Irregular{}
	if !fm.Irregular {
		weekly, err := models.NewWeekly(fm.Days...)
		if err != nil {
			return models.Tracker{}, "", err
		}
		rec = weekly
	}
	tracker, err := models.NewTracker(strings.TrimSpace(fm.Name), fm.Color, fm.Emoji, rec)
	if err != nil {
		return models.Tracker{}, "", err
	}
	category := strings.TrimSpace(fm.Category)
	if category == "" {
		return models.Tracker{}, "", fmt.Errorf("category cannot be empty")
	}
	return tracker, category, nil
}

func weekdayOptions() []huh.Option[models.WeekDay] {
	options := make([]huh.Option[models.WeekDay], 0, len(models.AllWeekDays))
	for _, d := range models.AllWeekDays {
		options = append(options, huh.NewOption(d.String(), d))
	}
	return options
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// NewTrackerForm creates the form used to add a tracker.
func NewTrackerForm(fm *TrackerFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Tracker Name").
				Value(&fm.Name).
				Validate(notEmpty("tracker name")),
			huh.NewInput().
				Title("Category").
				Value(&fm.Category).
				Validate(notEmpty("category")),
			huh.NewInput().
				Title("Emoji").
				Value(&fm.Emoji),
			huh.NewConfirm().
				Title("One-off event?").
				Description("Irregular events show every day until they are completed once.").
				Value(&fm.Irregular),
		),
		huh.NewGroup(
			huh.NewMultiSelect[models.WeekDay]().
				Title("Repeat on").
				Options(weekdayOptions()...).
				Value(&fm.Days).
				Validate(func(days []models.WeekDay) error {
					if len(days) == 0 {
						return fmt.Errorf("pick at least one weekday")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Irregular }),
	).WithTheme(huh.ThemeDracula())
}
