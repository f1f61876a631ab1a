package system

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/config"
)

type ConfigCmd struct {
	Init    ConfigInitCmd `cmd:"" help:"Write a default settings file."`
	Show    ConfigShowCmd `cmd:"" help:"Print the active settings."`
	Keyring struct {
		Set    KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is available."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing settings file."`
}

func (c *ConfigInitCmd) Run(ctx *cli.Context) error {
	if err := config.Write(ctx.SettingsPath, config.Default(), c.Force); err != nil {
		return err
	}
	fmt.Printf("✓ Settings written to %s\n", ctx.SettingsPath)
	return nil
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	data, err := yaml.Marshal(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	fmt.Printf("# %s\n%s", ctx.SettingsPath, data)
	return nil
}
