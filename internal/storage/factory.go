package storage

import (
	"strings"
	"time"

	"github.com/julianstephens/tracker/internal/storage/jsonfile"
	"github.com/julianstephens/tracker/internal/storage/postgres"
	"github.com/julianstephens/tracker/internal/storage/sqlite"
)

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
	_ Provider = (*jsonfile.Store)(nil)
)

// Backend names the storage implementation selected for a location.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendJSON     Backend = "json"
)

// DetectBackend picks a backend from a file path or connection string.
func DetectBackend(location string) Backend {
	switch {
	case postgres.IsConnString(location):
		return BackendPostgres
	case strings.HasSuffix(strings.ToLower(location), ".json"):
		return BackendJSON
	default:
		return BackendSQLite
	}
}

// Open returns an unopened provider for location. Day keys read back from
// storage are interpreted in loc.
func Open(location string, loc *time.Location) Provider {
	switch DetectBackend(location) {
	case BackendPostgres:
		s := postgres.New(location)
		s.SetLocation(loc)
		return s
	case BackendJSON:
		s := jsonfile.New(location)
		s.SetLocation(loc)
		return s
	default:
		s := sqlite.NewStore(location)
		s.SetLocation(loc)
		return s
	}
}
