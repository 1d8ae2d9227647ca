package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/timetable/internal/constants"
)

// Logger is the process-wide logger. Nil until Init; the helpers below are
// no-ops in that case so libraries and tests can log freely.
var Logger *log.Logger

type Config struct {
	Debug     bool
	ConfigDir string
	// Stderr mirrors output to stderr in logfmt at info level. Used by serve.
	Stderr bool
}

// LogFile returns the path of the rotating log file under configDir.
func LogFile(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

func (c Config) level() log.Level {
	switch {
	case c.Debug:
		return log.DebugLevel
	case c.Stderr:
		return log.InfoLevel
	default:
		return log.WarnLevel
	}
}

// Init replaces Logger. Interactive runs write only the log file so the
// TUI is left alone.
func Init(cfg Config) error {
	path := LogFile(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	if cfg.Debug || cfg.Stderr {
		out = io.MultiWriter(os.Stderr, out)
	}

	opts := log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           cfg.level(),
		Prefix:          constants.AppName,
	}
	if cfg.Stderr {
		opts.Formatter = log.LogfmtFormatter
	}
	Logger = log.NewWithOptions(out, opts)
	return nil
}

func Debug(msg string, keyvals ...interface{}) { emit(log.DebugLevel, msg, keyvals) }

func Info(msg string, keyvals ...interface{}) { emit(log.InfoLevel, msg, keyvals) }

func Warn(msg string, keyvals ...interface{}) { emit(log.WarnLevel, msg, keyvals) }

func Error(msg string, keyvals ...interface{}) { emit(log.ErrorLevel, msg, keyvals) }

func emit(level log.Level, msg string, keyvals []interface{}) {
	if Logger == nil {
		return
	}
	Logger.Helper()
	Logger.Log(level, msg, keyvals...)
}
