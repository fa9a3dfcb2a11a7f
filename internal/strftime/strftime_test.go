package strftime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatInstanceDirPattern(t *testing.T) {
	at := time.Date(2026, time.August, 1, 9, 5, 3, 0, time.UTC)
	assert.Equal(t, "2026-08-01_09-05-03", Format("%Y-%m-%d_%H-%M-%S", at))
}

func TestFormatShortYear(t *testing.T) {
	at := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "26/01/02", Format("%y/%m/%d", at))
}

func TestFormatLiteralPercent(t *testing.T) {
	at := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "100%-2026", Format("100%%-%Y", at))
}

func TestFormatUnknownVerbPassesThrough(t *testing.T) {
	at := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-%q", Format("%Y-%q", at))
}

func TestFormatPlainLiteralUnaffectedByTime(t *testing.T) {
	at := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "backup", Format("backup", at))
}
