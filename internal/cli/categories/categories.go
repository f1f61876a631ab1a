package categories

import (
	"fmt"

	"github.com/julianstephens/tracker/internal/cli"
)

type CategoryCmd struct {
	Add    AddCmd    `cmd:"" help:"Add an empty category."`
	Delete DeleteCmd `cmd:"" help:"Delete a category and its trackers."`
	List   ListCmd   `cmd:"" help:"List categories."`
}

type AddCmd struct {
	Title string `arg:"" help:"Category title."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	result, err := sess.Organizer.AddCategory(c.Title)
	if err != nil {
		return err
	}
	if result.AlreadyExists {
		fmt.Printf("Category %q already exists\n", c.Title)
		return nil
	}
	fmt.Printf("Added category: %s\n", c.Title)
	return nil
}

type DeleteCmd struct {
	Title string `arg:"" help:"Category title."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	var count int
	for _, category := range sess.Organizer.Categories() {
		if category.Title == c.Title {
			count = len(category.Trackers)
		}
	}
	if err := sess.Organizer.DeleteCategory(c.Title); err != nil {
		return err
	}

	fmt.Printf("Deleted category: %s (%d tracker(s) removed)\n", c.Title, count)
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	categories := sess.Organizer.Categories()
	if len(categories) == 0 {
		fmt.Println("No categories found.")
		return nil
	}
	for _, category := range categories {
		fmt.Printf("%-20s %d tracker(s)\n", category.Title, len(category.Trackers))
	}
	return nil
}
