// Package logging builds the process-wide logrus logger.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// New returns a logger writing to out at the named level. Unknown levels fall back to debug.
func New(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)

	logger.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
	return logger
}

// Component returns an entry tagged with the component prefix.
func Component(logger *logrus.Logger, name string) *logrus.Entry {
	return logger.WithField("prefix", name)
}
