package hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 8, 28, hour, minute, 0, 0, time.Local)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		text string
		now  time.Time
		want Status
	}{
		{"inside plain interval", "11:00-23:00", at(12, 0), StatusOpen},
		{"after closing", "11:00-23:00", at(23, 30), StatusClosed},
		{"at opening boundary", "11:00-23:00", at(11, 0), StatusOpen},
		{"at closing boundary", "11:00-23:00", at(23, 0), StatusOpen},
		{"overnight still open", "18:00-02:00", at(1, 0), StatusOpen},
		{"overnight before opening", "18:00-02:00", at(15, 0), StatusClosed},
		{"no interval at all", "store is closed", at(12, 0), StatusUnknown},
		{"empty text", "", at(12, 0), StatusUnknown},
		{"between split hours", "11:00-14:00 / 17:00-23:00", at(15, 0), StatusClosed},
		{"second of split hours", "11:00-14:00 / 17:00-23:00", at(18, 0), StatusOpen},
		{"full-width separator", "11:00～23:00", at(12, 0), StatusOpen},
		{"wave dash separator", "11:00〜23:00", at(12, 0), StatusOpen},
		{"next-day marker", "18:00～翌2:00", at(1, 0), StatusOpen},
		{"surrounding prose", "ランチ 11:30～14:00（L.O.13:30）", at(12, 0), StatusOpen},
		{"extended late-night hour", "17:00-25:00", at(0, 30), StatusOpen},
		{"malformed minute skipped", "11:00-23:99", at(12, 0), StatusUnknown},
		{"malformed mixed with valid", "11:00-23:99 17:00-22:00", at(18, 0), StatusOpen},
		{"absurd hour skipped", "31:00-43:00", at(12, 0), StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.text, tt.now))
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "open", StatusOpen.String())
	assert.Equal(t, "closed", StatusClosed.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}
