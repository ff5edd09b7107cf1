package config

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

// GetLogger returns the process-wide structured logger.
func GetLogger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if err != nil {
		level = logrus.InfoLevel
	}
	logg.SetLevel(level)
}
