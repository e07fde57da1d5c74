package telemetry

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var logger = newLogger(stdout{})

// stdout resolves os.Stdout on every write so redirected output is honoured.
type stdout struct{}

func (stdout) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
		},
	})
	return l
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	logger.WithFields(logrus.Fields(fields)).WithTime(time.Now().UTC()).Info(msg)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	logger.WithFields(logrus.Fields(fields)).WithTime(time.Now().UTC()).Error(msg)
}

// SetOutput redirects log lines, mainly for the CLI and tests.
func SetOutput(w io.Writer) {
	if w == nil {
		w = stdout{}
	}
	logger.SetOutput(w)
}
