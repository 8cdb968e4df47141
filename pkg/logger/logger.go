// Package logger — тонкая обёртка над logrus с printf-style методами.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
	With(args ...any) Logger
}

type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger создаёт JSON-логгер в stdout, уровень берётся из LOG_LEVEL.
func NewLogrusLogger() *LogrusLogger {
	return NewLogrusLoggerWithWriter(os.Stdout, ParseLevel(os.Getenv("LOG_LEVEL")))
}

func NewLogrusLoggerWithWriter(w io.Writer, level logrus.Level) *LogrusLogger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(level)
	return &LogrusLogger{entry: logrus.NewEntry(log)}
}

// NewNopLogger возвращает логгер, который ничего не пишет. Используется в тестах.
func NewNopLogger() *LogrusLogger {
	return NewLogrusLoggerWithWriter(io.Discard, logrus.PanicLevel)
}

// ParseLevel переводит строку (debug, info, warn, error) в logrus.Level, по умолчанию info.
func ParseLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func (l *LogrusLogger) Debugf(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

func (l *LogrusLogger) Infof(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *LogrusLogger) Warnf(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *LogrusLogger) Errorf(err error, format string, args ...any) {
	l.entry.WithError(err).Errorf(format, args...)
}

// With добавляет поля из пар ключ-значение. Ключ без значения получает пустую строку.
func (l *LogrusLogger) With(args ...any) Logger {
	fields := make(logrus.Fields, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 < len(args) {
			fields[key] = args[i+1]
		} else {
			fields[key] = ""
		}
	}
	return &LogrusLogger{entry: l.entry.WithFields(fields)}
}
