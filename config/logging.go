package config

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ConfigureLogging applies the log section to logger.
func (c *Config) ConfigureLogging(logger *logrus.Logger) error {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return errors.Wrap(err, "log.level")
	}
	logger.SetLevel(level)

	switch c.Log.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
