// Package engine implements the campaign execution engine: the calling-window
// policy, the contact resolver, the call dispatcher and the polling scheduler
// that ties them together.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/voicereach/voicereach-backend/internal/models"
)

// Reason classifies why the policy blocked a campaign. Stored as the paused
// reason, so values stay stable and machine-checkable.
type Reason string

const (
	ReasonOutsideHours    Reason = "outside-hours"
	ReasonDayNotAllowed   Reason = "day-not-allowed"
	ReasonDailyCapReached Reason = "daily-cap-reached"
)

// Decision is the outcome of a calling-window policy evaluation.
type Decision struct {
	Allowed bool
	Reason  Reason
	Message string
}

// Evaluate checks whether a campaign is permitted to dial at the given time.
// Pure function of its inputs; no side effects.
//
// Checks run in order: hour window, weekday allow-list, daily cap. The hour
// window treats start=0,end=0 as unrestricted (24/7 mode), start<=end as a
// same-day window [start,end), and start>end as a window crossing midnight.
func Evaluate(c *models.Campaign, now time.Time) Decision {
	if !hoursAllow(c.StartHour, c.EndHour, now.Hour()) {
		return deny(ReasonOutsideHours, fmt.Sprintf(
			"Outside calling hours (%02d:00-%02d:00)", c.StartHour, c.EndHour))
	}

	day := strings.ToLower(now.Weekday().String())
	if !dayAllowed(c.CallingDays, day) {
		return deny(ReasonDayNotAllowed, fmt.Sprintf("Calling not allowed on %s", day))
	}

	if c.CurrentDaily >= c.DailyCap {
		return deny(ReasonDailyCapReached, fmt.Sprintf(
			"Daily cap reached (%d/%d)", c.CurrentDaily, c.DailyCap))
	}

	return Decision{Allowed: true}
}

func deny(reason Reason, message string) Decision {
	return Decision{Allowed: false, Reason: reason, Message: message}
}

func hoursAllow(start, end, hour int) bool {
	switch {
	case start == 0 && end == 0:
		return true
	case start <= end:
		return hour >= start && hour < end
	default:
		return hour >= start || hour < end
	}
}

// dayAllowed reports whether the weekday is in the allow-list. An empty list
// allows nothing.
func dayAllowed(days []string, day string) bool {
	for _, d := range days {
		if strings.EqualFold(d, day) {
			return true
		}
	}
	return false
}
