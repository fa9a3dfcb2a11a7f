package logging

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	// Assertions below match on substrings, not exact bytes, so they hold
	// regardless of whether color codes are emitted in this environment.
	color.NoColor = true
}

func TestNameToLevel(t *testing.T) {
	level, ok := NameToLevel("warn")
	assert.True(t, ok)
	assert.Equal(t, LevelWarn, level)

	_, ok = NameToLevel("verbose")
	assert.False(t, ok)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "unknown", Level(99).String())
}

func TestLoggerGatesOnLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelWarn, &buf)

	logger.Debug("should not appear")
	logger.Info("should not appear either")
	assert.Empty(t, buf.String())

	logger.Warn("disk almost full")
	assert.Contains(t, buf.String(), "disk almost full")
}

func TestLoggerErrorfIncludesFormattedMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelError, &buf)

	logger.Errorf("failed on %s: %d errors", "docs", 3)
	assert.Contains(t, buf.String(), "failed on docs: 3 errors")
}

func TestLoggerDisabledLevelSuppressesEverything(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelDisabled, &buf)

	logger.Error("boom")
	logger.Warn("boom")
	logger.Info("boom")
	logger.Debug("boom")

	assert.Empty(t, buf.String())
}

func TestSubloggerPrefixNesting(t *testing.T) {
	var buf bytes.Buffer
	root := NewLogger(LevelInfo, &buf)
	child := root.Sublogger("job").Sublogger("docs")

	child.Info("scanning")

	assert.Contains(t, buf.String(), "[job.docs] scanning")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger

	assert.NotPanics(t, func() {
		logger.Error("x")
		logger.Warnf("x %d", 1)
		logger.Info("x")
		logger.Debug("x")
		_ = logger.Sublogger("x")
		_ = logger.Writer()
	})
}

func TestLoggerWriterSplitsLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelInfo, &buf)
	w := logger.Writer()

	_, err := w.Write([]byte("first line\r\nsecond"))
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "first line")
	assert.NotContains(t, buf.String(), "second")

	_, err = w.Write([]byte(" part\n"))
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "second part")
}
