// Package log provides the logger used throughout the emulator. The
// default implementation is a logrus logger, configured the same way
// for every component so log lines can be diffed between runs.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// New returns a logger writing plain text to stderr at info level.
func New() Logger {
	return newLogrus(os.Stderr, logrus.InfoLevel, true)
}

// NewWithLevel returns a logger writing to w at the named level
// ("debug", "info", "warn", "error" ...). Colours are only used when
// colour is true.
func NewWithLevel(w io.Writer, level string, colour bool) (Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return newLogrus(w, lvl, !colour), nil
}

func newLogrus(w io.Writer, level logrus.Level, disableColors bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    disableColors,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return l
}
