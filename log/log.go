// Package log writes structured application logs to date-stamped files under
// the logs directory.
package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/key"
	"github.com/vodhound/vodhound/where"
)

var enabled bool

// Setup points logrus at today's log file. With logs.write off, every
// emission below is a no-op.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	file, err := filesystem.API().OpenFile(
		filepath.Join(dir, time.Now().Format("2006-01-02")+".log"),
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	logrus.SetOutput(file)

	var formatter logrus.Formatter = &logrus.TextFormatter{}
	if viper.GetBool(key.LogsJson) {
		formatter = &logrus.JSONFormatter{PrettyPrint: true}
	}
	logrus.SetFormatter(formatter)

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	return nil
}

// Fields carries structured context for per-request log records (site,
// status, elapsed).
type Fields = logrus.Fields

// WithFields emits an info-level record with structured context attached.
func WithFields(msg string, fields Fields) {
	if enabled {
		logrus.WithFields(fields).Info(msg)
	}
}

// emit and emitf gate the logrus proxies, so every emission drops silently
// while logging is off. Panic included: a disabled logger never panics.
func emit(log func(...any), args []any) {
	if enabled {
		log(args...)
	}
}

func emitf(logf func(string, ...any), format string, args []any) {
	if enabled {
		logf(format, args...)
	}
}

func Panic(args ...any) { emit(logrus.Panic, args) }

func Panicf(format string, args ...any) { emitf(logrus.Panicf, format, args) }

func Error(args ...any) { emit(logrus.Error, args) }

func Errorf(format string, args ...any) { emitf(logrus.Errorf, format, args) }

func Warn(args ...any) { emit(logrus.Warn, args) }

func Warnf(format string, args ...any) { emitf(logrus.Warnf, format, args) }

func Info(args ...any) { emit(logrus.Info, args) }

func Infof(format string, args ...any) { emitf(logrus.Infof, format, args) }

func Debug(args ...any) { emit(logrus.Debug, args) }

func Debugf(format string, args ...any) { emitf(logrus.Debugf, format, args) }
