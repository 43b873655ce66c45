package core

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type LogLevel = log.Level

const (
	LogLevelDebug = log.DebugLevel
	LogLevelInfo  = log.InfoLevel
	LogLevelWarn  = log.WarnLevel
	LogLevelError = log.ErrorLevel
)

// LogOptions configures the process-wide log sink.
type LogOptions struct {
	// Filename of the log file. Empty means stderr only.
	Filename string
	Level    LogLevel
	Prefix   string
}

var once sync.Once

type logger struct {
	*log.Logger
	file *os.File
}

var (
	mu        sync.Mutex
	singleton *logger
)

func newLogger(w io.Writer, level LogLevel, prefix string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		CallerOffset:    1,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          prefix,
	})
	l.SetLevel(level)
	return l
}

func getLogger() *logger {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if singleton == nil {
			singleton = &logger{Logger: newLogger(os.Stderr, log.DebugLevel, "Framework")}
		}
	})
	return singleton
}

// LogConfigure replaces the log sink. When a filename is given the output
// is written both to stderr and to that file, which is appended to.
func LogConfigure(opts LogOptions) error {
	var (
		w    io.Writer = os.Stderr
		file *os.File
	)
	if opts.Filename != "" {
		f, err := os.OpenFile(opts.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file %q: %w", opts.Filename, err)
		}
		file = f
		w = io.MultiWriter(os.Stderr, f)
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "Framework"
	}

	// make sure the default logger is never created over the configured one
	once.Do(func() {})

	mu.Lock()
	defer mu.Unlock()
	if singleton != nil && singleton.file != nil {
		singleton.file.Close()
	}
	singleton = &logger{Logger: newLogger(w, opts.Level, prefix), file: file}
	return nil
}

// LogSetOutput redirects the log sink, mostly useful in tests.
func LogSetOutput(w io.Writer) {
	getLogger().SetOutput(w)
}

// LogClose flushes and closes the log file, if any.
func LogClose() error {
	mu.Lock()
	defer mu.Unlock()
	if singleton == nil || singleton.file == nil {
		return nil
	}
	err := singleton.file.Close()
	singleton.file = nil
	singleton.SetOutput(os.Stderr)
	return err
}

func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}

func LogFatal(msg string, args ...interface{}) {
	getLogger().Fatalf(msg, args...)
}
