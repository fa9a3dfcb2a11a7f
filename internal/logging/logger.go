package logging

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
)

// lineWriter adapts a line-oriented logging callback to io.Writer, since
// callers like exec.Cmd only know how to stream raw bytes and a log line
// should never split across two callback invocations.
type lineWriter struct {
	emit    func(string)
	pending bytes.Buffer
}

// Write buffers buffer until one or more complete lines accumulate, emitting
// each via emit and carrying any trailing partial line over to the next
// call. It implements io.Writer and never returns an error.
func (w *lineWriter) Write(buffer []byte) (int, error) {
	w.pending.Write(buffer)

	for {
		text := w.pending.String()
		newline := strings.IndexByte(text, '\n')
		if newline == -1 {
			break
		}
		w.emit(strings.TrimSuffix(text[:newline], "\r"))
		w.pending.Next(newline + 1)
	}

	return len(buffer), nil
}

// Logger is the main logger type. It has the property that it still
// functions if nil, but it doesn't log anything, so callers never have to
// guard a logging call with a nil check. It wraps the standard log package
// logger and gates output on a configured Level.
type Logger struct {
	// prefix is any prefix specified for the logger.
	prefix string
	// level is the maximum level that will be emitted by this logger.
	level Level
	// backend is the underlying standard library logger.
	backend *log.Logger
}

// NewLogger creates a new root logger writing to w at the specified level.
func NewLogger(level Level, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		level:   level,
		backend: log.New(w, "", log.Ldate|log.Ltime),
	}
}

// Sublogger creates a new sublogger with the specified name, inheriting the
// parent's level and backend.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}
	return &Logger{
		prefix:  prefix,
		level:   l.level,
		backend: l.backend,
	}
}

// output is the internal logging method.
func (l *Logger) output(line string) {
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	l.backend.Output(3, line)
}

// Error logs error information, unconditionally colored red, gated on
// LevelError.
func (l *Logger) Error(v ...interface{}) {
	if l != nil && l.level >= LevelError {
		l.output(color.RedString("Error: %s", fmt.Sprint(v...)))
	}
}

// Errorf logs formatted error information, gated on LevelError.
func (l *Logger) Errorf(format string, v ...interface{}) {
	if l != nil && l.level >= LevelError {
		l.output(color.RedString("Error: "+format, v...))
	}
}

// Warn logs warning information, gated on LevelWarn.
func (l *Logger) Warn(v ...interface{}) {
	if l != nil && l.level >= LevelWarn {
		l.output(color.YellowString("Warning: %s", fmt.Sprint(v...)))
	}
}

// Warnf logs formatted warning information, gated on LevelWarn.
func (l *Logger) Warnf(format string, v ...interface{}) {
	if l != nil && l.level >= LevelWarn {
		l.output(color.YellowString("Warning: "+format, v...))
	}
}

// Info logs informational output, gated on LevelInfo.
func (l *Logger) Info(v ...interface{}) {
	if l != nil && l.level >= LevelInfo {
		l.output(fmt.Sprint(v...))
	}
}

// Infof logs formatted informational output, gated on LevelInfo.
func (l *Logger) Infof(format string, v ...interface{}) {
	if l != nil && l.level >= LevelInfo {
		l.output(fmt.Sprintf(format, v...))
	}
}

// Debug logs debugging information, gated on LevelDebug.
func (l *Logger) Debug(v ...interface{}) {
	if l != nil && l.level >= LevelDebug {
		l.output(fmt.Sprint(v...))
	}
}

// Debugf logs formatted debugging information, gated on LevelDebug.
func (l *Logger) Debugf(format string, v ...interface{}) {
	if l != nil && l.level >= LevelDebug {
		l.output(fmt.Sprintf(format, v...))
	}
}

// Writer returns an io.Writer that writes lines using Info.
func (l *Logger) Writer() io.Writer {
	if l == nil {
		return io.Discard
	}
	return &lineWriter{emit: func(s string) { l.Info(s) }}
}
