package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsCurrentlyOpen_RespectsLocalWallClock(t *testing.T) {
	b := &Branch{Timezone: "Asia/Karachi", OpeningTime: "09:00", ClosingTime: "18:00"}

	// 05:00 UTC is 10:00 in Karachi (UTC+5).
	assert.True(t, b.IsCurrentlyOpen(time.Date(2026, 3, 2, 5, 0, 0, 0, time.UTC)))
	// 15:00 UTC is 20:00 in Karachi.
	assert.False(t, b.IsCurrentlyOpen(time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)))
}

func TestIsCurrentlyOpen_MissingDataTreatedAsOpen(t *testing.T) {
	now := time.Now()
	assert.True(t, (&Branch{}).IsCurrentlyOpen(now))
	assert.True(t, (&Branch{Timezone: "Not/AZone", OpeningTime: "09:00", ClosingTime: "18:00"}).IsCurrentlyOpen(now))
}

func TestLocalTime_UnknownZone(t *testing.T) {
	assert.Equal(t, "--:--", (&Branch{}).LocalTime(time.Now()))
	assert.Equal(t, "--:--", (&Branch{Timezone: "Not/AZone"}).LocalTime(time.Now()))

	b := &Branch{Timezone: "UTC"}
	assert.Equal(t, "10:30", b.LocalTime(time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)))
}

func TestBranchScope_String(t *testing.T) {
	assert.Equal(t, "global", GlobalScope().String())
	assert.Equal(t, "none", NoScope().String())
	assert.Equal(t, "branch:b-1", SingleBranchScope("b-1").String())
	assert.Equal(t, "country:Pakistan", CountryScope("Pakistan").String())
}
