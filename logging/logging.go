// Package logging holds the process-wide logrus logger.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Init configures the shared logger. Debug enables debug level; jsonOutput
// switches to the JSON formatter.
func Init(debug, jsonOutput bool) {
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if jsonOutput {
		log.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// SetOutput redirects log output. stdio transports must keep stdout clean.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// Get returns the shared logger
func Get() *logrus.Logger {
	return log
}

// WithSession returns an entry tagged with a session ID
func WithSession(id string) *logrus.Entry {
	return log.WithField("session", id)
}

// WithComponent returns an entry tagged with a component name
func WithComponent(name string) *logrus.Entry {
	return log.WithField("component", name)
}
