package logger

import (
	"io"
	"log"
)

type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
)

type Logger struct {
	logger *log.Logger
	level  LogLevel
	tag    string
}

// NewLogger wraps a standard logger with level filtering. A nil sink logger
// discards everything, which keeps test construction cheap.
func NewLogger(logger *log.Logger, level LogLevel) *Logger {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Logger{logger: logger, level: level}
}

// WithTag returns a logger whose messages carry a [tag] prefix.
func (l *Logger) WithTag(tag string) *Logger {
	return &Logger{logger: l.logger, level: l.level, tag: tag}
}

func (l *Logger) format(prefix, format string) string {
	switch {
	case l.tag != "" && prefix != "":
		return "[" + l.tag + "] " + prefix + " " + format
	case l.tag != "":
		return "[" + l.tag + "] " + format
	case prefix != "":
		return prefix + " " + format
	default:
		return format
	}
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	if l.level >= LogLevelDebug {
		l.logger.Printf(l.format("DEBUG:", format), v...)
	}
}

func (l *Logger) Infof(format string, v ...interface{}) {
	if l.level >= LogLevelInfo {
		l.logger.Printf(l.format("", format), v...)
	}
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	if l.level >= LogLevelWarning {
		l.logger.Printf(l.format("WARN:", format), v...)
	}
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	if l.level >= LogLevelError {
		l.logger.Printf(l.format("ERROR:", format), v...)
	}
}

func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatalf(l.format("FATAL:", format), v...)
}
