// Package logger provides the process-wide leveled logger. Each event renders
// as one line on the destination: a JSON object when the configured format is
// "json", or a timestamped bracketed line when it is "text".
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level orders log events by importance.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel

	// fatalLevel is never filtered; Fatal events always emit.
	fatalLevel
)

var levelNames = map[Level]string{
	DebugLevel: "debug",
	InfoLevel:  "info",
	WarnLevel:  "warn",
	ErrorLevel: "error",
	fatalLevel: "fatal",
}

// ParseLevel maps a configured level string to a Level. Unknown strings fall
// back to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger writes leveled events to a single destination. A nil Logger discards
// everything, so package-level logging is safe before Init.
type Logger struct {
	level   Level
	useJSON bool
	out     *log.Logger
}

// New creates a Logger at the given level writing to w. format selects the
// encoding: "text" produces bracketed lines, anything else produces JSON.
func New(level, format string, w io.Writer) *Logger {
	return &Logger{
		level:   ParseLevel(level),
		useJSON: strings.ToLower(format) != "text",
		out:     log.New(w, "", 0),
	}
}

var defaultLogger *Logger

// Init installs the process-wide default logger on stderr.
func Init(level, format string) {
	defaultLogger = New(level, format, os.Stderr)
}

type event struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (l *Logger) emit(lv Level, format string, args ...interface{}) {
	if l == nil || lv < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	now := time.Now().UTC()

	if l.useJSON {
		data, err := json.Marshal(event{
			Time:    now.Format(time.RFC3339Nano),
			Level:   levelNames[lv],
			Message: msg,
		})
		if err == nil {
			l.out.Print(string(data))
			return
		}
		// Fall through to the text form if the event cannot be encoded.
	}
	l.out.Printf("%s [%s] %s",
		now.Format(time.RFC3339Nano), strings.ToUpper(levelNames[lv]), msg)
}

// Debug logs a message at DebugLevel.
func (l *Logger) Debug(format string, args ...interface{}) { l.emit(DebugLevel, format, args...) }

// Info logs a message at InfoLevel.
func (l *Logger) Info(format string, args ...interface{}) { l.emit(InfoLevel, format, args...) }

// Warn logs a message at WarnLevel.
func (l *Logger) Warn(format string, args ...interface{}) { l.emit(WarnLevel, format, args...) }

// Error logs a message at ErrorLevel.
func (l *Logger) Error(format string, args ...interface{}) { l.emit(ErrorLevel, format, args...) }

// Debug logs through the default logger; a no-op before Init.
func Debug(format string, args ...interface{}) { defaultLogger.Debug(format, args...) }

// Info logs through the default logger; a no-op before Init.
func Info(format string, args ...interface{}) { defaultLogger.Info(format, args...) }

// Warn logs through the default logger; a no-op before Init.
func Warn(format string, args ...interface{}) { defaultLogger.Warn(format, args...) }

// Error logs through the default logger; a no-op before Init.
func Error(format string, args ...interface{}) { defaultLogger.Error(format, args...) }

// Fatal logs through the default logger (or stdlib log before Init) and exits.
func Fatal(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.emit(fatalLevel, format, args...)
	} else {
		log.Printf("[FATAL] "+format, args...)
	}
	os.Exit(1)
}
