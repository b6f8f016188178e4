package log

import (
	"io"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level = logrus.Level

const (
	PanicLevel = logrus.PanicLevel
	FatalLevel = logrus.FatalLevel
	ErrorLevel = logrus.ErrorLevel
	WarnLevel  = logrus.WarnLevel
	InfoLevel  = logrus.InfoLevel
	DebugLevel = logrus.DebugLevel
)

// disabled is set by Disable, it turns off all logging, including errors.
var disabled bool

// Disable turns off all logging.
func Disable() {
	disabled = true
}

// SetOutput redirects the log output (stderr by default).
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

func setBackendLevel(lvl Level) {
	logrus.SetLevel(lvl)
}
