package system

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/keyring"
	"github.com/julianstephens/tracker/internal/storage/postgres"
)

// KeyringSetCmd stores the connection string read by '--config keyring'.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	connStr := strings.TrimSpace(cmd.ConnectionString)
	if !postgres.IsConnString(connStr) && !strings.Contains(connStr, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	// Embedded passwords are allowed here since the keyring is encrypted
	switch _, err := postgres.ValidateConnString(connStr); {
	case errors.Is(err, postgres.ErrEmbeddedCredentials):
		fmt.Println("⚠️  Storing embedded credentials as-is in the OS keyring")
	case err != nil:
		return fmt.Errorf("invalid connection string: %w", err)
	}

	if err := keyring.SetConnectionString(connStr); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Println("✓ Connection string stored in OS keyring, pass --config keyring to use it")
	if os.Getenv(constants.EnvDBConnection) != "" {
		fmt.Printf("ℹ %s is set and takes precedence over the keyring\n", constants.EnvDBConnection)
	}
	return nil
}

// KeyringGetCmd shows the connection string '--config keyring' would use.
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, source, err := keyring.Resolve()
	if err != nil {
		return err
	}

	fmt.Printf("Connection string (from %s):\n", source)
	fmt.Println(maskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	fmt.Println("✓ Connection string deleted from OS keyring")
	if os.Getenv(constants.EnvDBConnection) != "" {
		fmt.Printf("ℹ %s is still set and will be used by --config keyring\n", constants.EnvDBConnection)
	}
	return nil
}

// KeyringStatusCmd reports keyring availability and which source
// '--config keyring' resolves to.
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	fmt.Println("✓ OS keyring is available")

	_, source, err := keyring.Resolve()
	switch {
	case err == nil:
		fmt.Printf("✓ --config keyring uses the %s\n", source)
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Println("ℹ No connection string configured")
	default:
		return err
	}
	return nil
}

// maskPassword hides the password in URL and key=value connection strings.
func maskPassword(connStr string) string {
	if postgres.IsConnString(connStr) {
		if u, err := url.Parse(connStr); err == nil {
			return u.Redacted()
		}
		return connStr
	}

	fields := strings.Fields(connStr)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=xxxxx"
		}
	}
	return strings.Join(fields, " ")
}
