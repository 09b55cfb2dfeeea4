package logging

import (
	"io"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	timeFormat = "2006-01-02 15:04:05"
)

// Fields ...
type Fields = logrus.Fields

// Options - process wide logging settings, read once at startup
type Options struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// ReadOptions ...
func ReadOptions() (Options, error) {
	opts := Options{}
	err := envconfig.Process("", &opts)
	return opts, err
}

// New builds a logger for one binary. The returned entry is handed to every
// command handler; nothing in this package keeps global state.
func New(module string, opts Options, out io.Writer) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(out)
	switch strings.ToLower(opts.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: timeFormat})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: timeFormat,
			FullTimestamp:   true,
		})
	}
	switch strings.ToLower(opts.Level) {
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	case "warn", "warning":
		logger.SetLevel(logrus.WarnLevel)
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "trace":
		logger.SetLevel(logrus.TraceLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
	entry := logger.WithFields(logrus.Fields{
		"module": module,
	})
	entry.WithFields(logrus.Fields{
		"event": "init_logger",
	}).Debug("logger initiated")
	return entry
}
