package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/config"
	"github.com/julianstephens/tracker/internal/storage/sqlite"
)

func TestInitCmdCreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tracker.db")
	store := sqlite.NewStore(path)
	defer store.Close()

	ctx := &cli.Context{Store: store, Config: config.Default(), Location: time.UTC}
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("InitCmd.Run() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database not created: %v", err)
	}

	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Errorf("MigrateCmd.Run() on a fresh database error = %v", err)
	}
}

func TestInitCmdForceResetsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.db")
	store := sqlite.NewStore(path)
	defer store.Close()
	ctx := &cli.Context{Store: store, Config: config.Default(), Location: time.UTC}

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("InitCmd.Run() error = %v", err)
	}
	sess, err := ctx.Session()
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	if _, err := sess.Organizer.AddCategory("health"); err != nil {
		t.Fatalf("AddCategory() error = %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("InitCmd.Run(force) error = %v", err)
	}
	categories, err := store.LoadCategories()
	if err != nil {
		t.Fatalf("LoadCategories() error = %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("categories after reset = %d, want 0", len(categories))
	}
}

func TestConfigInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	ctx := &cli.Context{SettingsPath: path, Config: config.Default()}

	if err := (&ConfigInitCmd{}).Run(ctx); err != nil {
		t.Fatalf("ConfigInitCmd.Run() error = %v", err)
	}
	if err := (&ConfigInitCmd{}).Run(ctx); err == nil {
		t.Error("second ConfigInitCmd.Run() without force should fail")
	}
	if err := (&ConfigInitCmd{Force: true}).Run(ctx); err != nil {
		t.Errorf("ConfigInitCmd.Run(force) error = %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	if cfg != config.Default() {
		t.Errorf("written settings = %+v, want defaults", cfg)
	}
}

func TestValidateCmd(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "tracker.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer store.Close()
	ctx := &cli.Context{Store: store, Config: config.Default(), Location: time.UTC}

	sess, err := ctx.Session()
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	if _, err := sess.Organizer.AddCategory("someday"); err != nil {
		t.Fatalf("AddCategory() error = %v", err)
	}

	if err := (&ValidateCmd{}).Run(ctx); err != nil {
		t.Errorf("ValidateCmd.Run() error = %v", err)
	}
}
