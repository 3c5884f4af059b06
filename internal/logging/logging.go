package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log общий логгер сервиса
var Log = newLogger()

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
	return logger
}

// Init настраивает уровень логирования; неизвестный уровень заменяется на info
func Init(level string) {
	logLevel, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	Log.SetLevel(logLevel)
}
