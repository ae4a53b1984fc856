// Package log is the diagnostic logger for mediabrowse.
//
// The terminal belongs to the browser while it runs, so diagnostics go to an
// append-only file. Opening or writing that file is best effort: a logger that
// cannot reach its file silently discards output and never fails its caller.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"mediabrowse/internal/errors"
)

var (
	mu     sync.RWMutex
	logger = NewLogger(WithOutput(io.Discard))
)

// Field is a single structured key/value attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger wraps a logrus logger together with the file it may own.
type Logger struct {
	base *logrus.Logger
	file *os.File
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sends log lines to w.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.base.SetOutput(w)
	}
}

// WithFile appends log lines to path. Failure to open the file leaves the
// logger writing to io.Discard.
func WithFile(path string) Option {
	return func(l *Logger) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			l.base.SetOutput(io.Discard)
			return
		}
		l.file = f
		l.base.SetOutput(swallowWriter{f})
	}
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(l *Logger) {
		l.base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	}
}

// WithDebug enables debug level output.
func WithDebug(debug bool) Option {
	return func(l *Logger) {
		if debug {
			l.base.SetLevel(logrus.DebugLevel)
		} else {
			l.base.SetLevel(logrus.InfoLevel)
		}
	}
}

// NewLogger creates a logger. Without options it writes timestamped text
// lines to stderr.
func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetLevel(logrus.InfoLevel)
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	l := &Logger{base: base}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.base.SetOutput(io.Discard)
	return err
}

// With returns an entry carrying fields.
func (l *Logger) With(fields ...Field) *Entry {
	return &Entry{e: logrus.NewEntry(l.base).WithFields(toLogrus(fields))}
}

// WithError returns an entry describing err, including its kind and the
// path, target or command it carries.
func (l *Logger) WithError(err error) *Entry {
	return &Entry{e: logrus.NewEntry(l.base).WithFields(errorFields(err))}
}

func (l *Logger) Info(msg string)                           { l.base.Info(msg) }
func (l *Logger) Infof(format string, args ...interface{})  { l.base.Infof(format, args...) }
func (l *Logger) Warn(msg string)                           { l.base.Warn(msg) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.base.Warnf(format, args...) }
func (l *Logger) Error(msg string)                          { l.base.Error(msg) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.base.Errorf(format, args...) }
func (l *Logger) Debug(msg string)                          { l.base.Debug(msg) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.base.Debugf(format, args...) }

// Entry is a log line under construction.
type Entry struct {
	e *logrus.Entry
}

// With adds more fields.
func (e *Entry) With(fields ...Field) *Entry {
	return &Entry{e: e.e.WithFields(toLogrus(fields))}
}

// WithError adds the fields describing err.
func (e *Entry) WithError(err error) *Entry {
	return &Entry{e: e.e.WithFields(errorFields(err))}
}

func (e *Entry) Info(msg string)                           { e.e.Info(msg) }
func (e *Entry) Infof(format string, args ...interface{})  { e.e.Infof(format, args...) }
func (e *Entry) Warn(msg string)                           { e.e.Warn(msg) }
func (e *Entry) Warnf(format string, args ...interface{})  { e.e.Warnf(format, args...) }
func (e *Entry) Error(msg string)                          { e.e.Error(msg) }
func (e *Entry) Errorf(format string, args ...interface{}) { e.e.Errorf(format, args...) }
func (e *Entry) Debug(msg string)                          { e.e.Debug(msg) }
func (e *Entry) Debugf(format string, args ...interface{}) { e.e.Debugf(format, args...) }

// Configure replaces the package level logger.
func Configure(opts ...Option) *Logger {
	l := NewLogger(opts...)
	mu.Lock()
	logger = l
	mu.Unlock()
	return l
}

// Default returns the package level logger.
func Default() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func toLogrus(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}

func errorFields(err error) logrus.Fields {
	fields := logrus.Fields{}
	if err == nil {
		fields["error"] = "<nil>"
		return fields
	}
	fields["error"] = err.Error()

	var appErr *errors.ApplicationError
	if errors.As(err, &appErr) {
		fields["error_kind"] = int(appErr.Kind())
	}
	var fileErr *errors.FileError
	if errors.As(err, &fileErr) {
		fields["path"] = fileErr.Path()
		fields["error_kind"] = int(fileErr.Kind())
	}
	var decodeErr *errors.DecodeError
	if errors.As(err, &decodeErr) {
		fields["path"] = decodeErr.Path()
		fields["error_kind"] = int(decodeErr.Kind())
	}
	var procErr *errors.ProcessError
	if errors.As(err, &procErr) {
		fields["command"] = procErr.Command()
		fields["exit_code"] = procErr.ExitCode()
		fields["error_kind"] = int(procErr.Kind())
	}
	var rewriteErr *errors.RewriteError
	if errors.As(err, &rewriteErr) {
		fields["target"] = rewriteErr.Target()
		fields["error_kind"] = int(rewriteErr.Kind())
	}
	return fields
}

// swallowWriter drops write errors so a broken log file never surfaces.
type swallowWriter struct {
	w io.Writer
}

func (s swallowWriter) Write(p []byte) (int, error) {
	_, _ = s.w.Write(p)
	return len(p), nil
}
