package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/tracker/internal/constants"
)

// Logger is the global logger. It discards output until Init or SetOutput.
var Logger = log.New(io.Discard)

// Config holds logger configuration
type Config struct {
	// Level is a charmbracelet/log level name. Empty means warn.
	Level string
	// Debug forces debug level and mirrors the log to stderr.
	Debug bool
	// Dir holds the rotated log files.
	Dir        string
	MaxSizeMB  int
	MaxBackups int
}

// ParseLevel accepts the level names used in settings files.
func ParseLevel(name string) (log.Level, error) {
	if name == "" {
		return log.WarnLevel, nil
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// Init writes logs to <Dir>/tracker.log, rotated by lumberjack.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	if cfg.Debug {
		level = log.DebugLevel
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return err
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, constants.AppName+".log"),
		MaxSize:    orDefault(cfg.MaxSizeMB, constants.LogMaxSizeMB),
		MaxBackups: orDefault(cfg.MaxBackups, constants.LogMaxBackups),
		MaxAge:     28,
		Compress:   true,
	}
	if cfg.Debug {
		out = io.MultiWriter(os.Stderr, out)
	}

	Logger = log.NewWithOptions(out, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// SetOutput replaces the global logger with one writing to w at debug level.
func SetOutput(w io.Writer) {
	Logger = log.NewWithOptions(w, log.Options{
		Level:  log.DebugLevel,
		Prefix: constants.AppName,
	})
}

func Debug(msg string, keyvals ...interface{}) { Logger.Debug(msg, keyvals...) }

func Info(msg string, keyvals ...interface{}) { Logger.Info(msg, keyvals...) }

func Warn(msg string, keyvals ...interface{}) { Logger.Warn(msg, keyvals...) }

func Error(msg string, keyvals ...interface{}) { Logger.Error(msg, keyvals...) }
