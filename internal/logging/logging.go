package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the field-capable logger handed to each component.
type Logger interface {
	logrus.FieldLogger
}

var root = struct {
	logger *logrus.Logger
	mutex  sync.Mutex
}{
	logger: newRoot(os.Stderr),
}

func newRoot(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})
	return l
}

// New returns a logger scoped to the named component.
func New(component string) Logger {
	return root.logger.WithField("component", component)
}

// ToFile routes all subsequent log output to the append-only sink at path.
func ToFile(path string) {
	root.mutex.Lock()
	root.logger.SetOutput(&appendWriter{path: path})
	root.mutex.Unlock()
}

// appendWriter opens the log file for append on every write and closes it
// again, so the file handle never outlives a single event. Concurrent runs
// may interleave lines; the agent does not lock the file.
type appendWriter struct {
	path string
}

func (w *appendWriter) Write(p []byte) (int, error) {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return f.Write(p)
}
