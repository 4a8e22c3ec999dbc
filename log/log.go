// Package log provides a structured logging facade over logrus with filesystem-based persistence.
package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vres-cli/vres/filesystem"
	"github.com/vres-cli/vres/key"
	"github.com/vres-cli/vres/where"
)

var enabled bool

// Setup initializes the log file, formatter and level from the global configuration.
// When logging is disabled every emission below is silently discarded.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))

	if exists := lo.Must(filesystem.API().Exists(path)); !exists {
		lo.Must(filesystem.API().Create(path))
	}

	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	}

	parsed, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	return nil
}

// Enabled reports whether log emissions reach the backend.
func Enabled() bool {
	return enabled
}

// Entry carries a set of fields attached to every message it emits.
type Entry struct {
	entry *logrus.Entry
}

// WithFields returns an Entry scoped to the given fields.
func WithFields(fields map[string]any) Entry {
	return Entry{entry: logrus.WithFields(fields)}
}

// WithField returns an Entry scoped to a single field.
func WithField(name string, value any) Entry {
	return Entry{entry: logrus.WithField(name, value)}
}

// WithField extends the entry with another field.
func (e Entry) WithField(name string, value any) Entry {
	return Entry{entry: e.entry.WithField(name, value)}
}

func (e Entry) Errorf(format string, args ...any) {
	if enabled {
		e.entry.Errorf(format, args...)
	}
}

func (e Entry) Warnf(format string, args ...any) {
	if enabled {
		e.entry.Warnf(format, args...)
	}
}

func (e Entry) Infof(format string, args ...any) {
	if enabled {
		e.entry.Infof(format, args...)
	}
}

func (e Entry) Debugf(format string, args ...any) {
	if enabled {
		e.entry.Debugf(format, args...)
	}
}

// Severity-specific emissions on the standard logger.

func Error(args ...any) {
	if enabled {
		logrus.Error(args...)
	}
}
func Errorf(format string, args ...any) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}
func Warn(args ...any) {
	if enabled {
		logrus.Warn(args...)
	}
}
func Warnf(format string, args ...any) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}
func Info(args ...any) {
	if enabled {
		logrus.Info(args...)
	}
}
func Infof(format string, args ...any) {
	if enabled {
		logrus.Infof(format, args...)
	}
}
func Debug(args ...any) {
	if enabled {
		logrus.Debug(args...)
	}
}
func Debugf(format string, args ...any) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
