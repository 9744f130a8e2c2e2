package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/voicereach/voicereach-backend/internal/models"
)

var allDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// mondayAt returns a Monday at the given hour.
func mondayAt(hour int) time.Time {
	return time.Date(2026, 8, 24, hour, 0, 0, 0, time.UTC)
}

func TestEvaluateUnrestrictedHours(t *testing.T) {
	c := &models.Campaign{
		StartHour:   0,
		EndHour:     0,
		CallingDays: allDays,
		DailyCap:    10,
	}

	for hour := 0; hour < 24; hour++ {
		d := Evaluate(c, mondayAt(hour))
		assert.True(t, d.Allowed, "hour %d should pass in 24/7 mode", hour)
	}
}

func TestEvaluateSameDayWindow(t *testing.T) {
	c := &models.Campaign{
		StartHour:   9,
		EndHour:     17,
		CallingDays: allDays,
		DailyCap:    10,
	}

	tests := []struct {
		hour    int
		allowed bool
	}{
		{8, false},
		{9, true},
		{12, true},
		{16, true},
		{17, false}, // end hour is exclusive
		{23, false},
		{0, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("hour_%02d", tt.hour), func(t *testing.T) {
			d := Evaluate(c, mondayAt(tt.hour))
			assert.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				assert.Equal(t, ReasonOutsideHours, d.Reason)
			}
		})
	}
}

func TestEvaluateCrossMidnightWindow(t *testing.T) {
	c := &models.Campaign{
		StartHour:   22,
		EndHour:     2,
		CallingDays: allDays,
		DailyCap:    10,
	}

	for hour := 0; hour < 24; hour++ {
		want := hour >= 22 || hour < 2
		d := Evaluate(c, mondayAt(hour))
		assert.Equal(t, want, d.Allowed, "hour %d", hour)
	}
}

func TestEvaluateEmptyCallingDays(t *testing.T) {
	c := &models.Campaign{
		StartHour: 0,
		EndHour:   0,
		DailyCap:  10,
	}

	d := Evaluate(c, mondayAt(10))
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonDayNotAllowed, d.Reason)
}

func TestEvaluateDayNotInAllowList(t *testing.T) {
	c := &models.Campaign{
		StartHour:   0,
		EndHour:     0,
		CallingDays: []string{"tuesday", "wednesday"},
		DailyCap:    10,
	}

	d := Evaluate(c, mondayAt(10))
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonDayNotAllowed, d.Reason)
	assert.Contains(t, d.Message, "monday")
}

func TestEvaluateDayMatchIsCaseInsensitive(t *testing.T) {
	c := &models.Campaign{
		StartHour:   0,
		EndHour:     0,
		CallingDays: []string{"Monday"},
		DailyCap:    10,
	}

	assert.True(t, Evaluate(c, mondayAt(10)).Allowed)
}

func TestEvaluateDailyCapBlocksRegardlessOfWindow(t *testing.T) {
	c := &models.Campaign{
		StartHour:    0,
		EndHour:      0,
		CallingDays:  allDays,
		DailyCap:     5,
		CurrentDaily: 5,
	}

	d := Evaluate(c, mondayAt(10))
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonDailyCapReached, d.Reason)
	assert.Contains(t, d.Message, "Daily cap")
}

func TestEvaluateCapScenarioMondayMorning(t *testing.T) {
	// In-window, allowed day, but the cap is exhausted.
	c := &models.Campaign{
		StartHour:    9,
		EndHour:      17,
		CallingDays:  []string{"monday"},
		DailyCap:     5,
		CurrentDaily: 5,
	}

	d := Evaluate(c, mondayAt(10))
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonDailyCapReached, d.Reason)
	assert.Contains(t, d.Message, "Daily cap")
}

func TestEvaluateUnderCapAllows(t *testing.T) {
	c := &models.Campaign{
		StartHour:    9,
		EndHour:      17,
		CallingDays:  []string{"monday"},
		DailyCap:     5,
		CurrentDaily: 4,
	}

	assert.True(t, Evaluate(c, mondayAt(10)).Allowed)
}
