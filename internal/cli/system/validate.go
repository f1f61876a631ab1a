package system

import (
	"fmt"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	origins := make(map[string]string)
	for _, id := range sess.Organizer.TrackerIDs() {
		if title, ok := sess.Organizer.OriginalCategory(id); ok {
			origins[id] = title
		}
	}

	fmt.Println("Validating trackers and records...")
	result := validation.New().Validate(validation.Input{
		Categories: sess.Organizer.Categories(),
		Records:    sess.Ledger.Records(),
		PinOrigins: origins,
		Today:      sess.Today(),
	})

	fmt.Println()
	fmt.Println(result.FormatReport())
	// Conflicts are reported, not treated as failures
	return nil
}
