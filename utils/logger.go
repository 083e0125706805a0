package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func InitLogger() {
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	// InfoLogger ke stdout, ErrorLogger ke stderr
	InfoLogger.SetOutput(os.Stdout)
	InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	ErrorLogger.SetOutput(os.Stderr)
	ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	InfoLogger.SetLevel(logrus.InfoLevel)
	ErrorLogger.SetLevel(logrus.ErrorLevel)
}

// SetLevel applies a textual level (debug, info, warn...) to the info logger.
// Unknown levels are ignored.
func SetLevel(level string) {
	if InfoLogger == nil || level == "" {
		return
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		ErrorLogger.Errorf("Unknown LOG_LEVEL %q, keeping %s", level, InfoLogger.GetLevel())
		return
	}
	InfoLogger.SetLevel(lvl)
}

// ensureLoggers keeps package helpers usable from tests that never call InitLogger.
func ensureLoggers() {
	if InfoLogger == nil || ErrorLogger == nil {
		InitLogger()
	}
}

// Info returns the shared info logger, initialising it when needed.
func Info() *logrus.Logger {
	ensureLoggers()
	return InfoLogger
}

// Error returns the shared error logger, initialising it when needed.
func Error() *logrus.Logger {
	ensureLoggers()
	return ErrorLogger
}
