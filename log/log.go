// Package log provides loggers for flock components.
package log

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DebugEnv is the environment variable that enables debug logging.
const DebugEnv = "FLOCK_DEBUG"

var debug bool

// Logger is a global interface for flock loggers.
type Logger interface {
	Debug(...interface{})
	Debugf(string, ...interface{})
	Info(...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
}

func init() {
	var err error
	debug, err = strconv.ParseBool(os.Getenv(DebugEnv))
	if err != nil {
		debug = false
	}
}

// GetLogger returns a new logger instance.
func GetLogger() *logrus.Logger {
	l := logrus.New()
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}
