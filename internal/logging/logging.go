package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Init configures the standard logrus logger for JSON output at the given
// level. Unknown levels fall back to info.
func Init(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
