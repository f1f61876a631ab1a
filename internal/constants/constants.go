package constants

const (
	AppName            = "tracker"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/tracker/tracker.db"
	DefaultSettings    = "~/.config/tracker/config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// PinnedCategoryTitle is the reserved category that holds pinned trackers.
	PinnedCategoryTitle = "pinned"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "tracker-"
	BackupFileSuffix = ".db"

	// Log rotation defaults
	LogLevel      = "warn"
	LogMaxSizeMB  = 10
	LogMaxBackups = 3

	// Environment variables
	EnvDBConnection = "TRACKER_DB_CONNECTION"

	// Ideal day matching modes
	IdealDayModeIDSet = "id_set"
	IdealDayModeCount = "count"
)
