package Schedule

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// WorkingDays maps lowercase weekday names to whether work happens that day.
type WorkingDays map[string]bool

// DefaultWorkingDays is Monday to Friday.
func DefaultWorkingDays() WorkingDays {
	return WorkingDays{
		"monday":    true,
		"tuesday":   true,
		"wednesday": true,
		"thursday":  true,
		"friday":    true,
		"saturday":  false,
		"sunday":    false,
	}
}

// ParseWorkingDays reads the company setting JSON column. A missing or
// malformed config degrades to the Mon-Fri default rather than failing:
// this only affects date rounding, never dependency correctness.
func ParseWorkingDays(raw datatypes.JSON) WorkingDays {
	if len(raw) == 0 {
		return DefaultWorkingDays()
	}
	var days WorkingDays
	if err := json.Unmarshal(raw, &days); err != nil || len(days) == 0 {
		return DefaultWorkingDays()
	}
	// A config with no working day at all would make every roll-forward
	// loop forever. Treat it as malformed.
	any := false
	for _, working := range days {
		if working {
			any = true
			break
		}
	}
	if !any {
		return DefaultWorkingDays()
	}
	return days
}

// Calendar answers working-day questions for one company configuration.
type Calendar struct {
	days WorkingDays
}

func NewCalendar(days WorkingDays) Calendar {
	if days == nil {
		days = DefaultWorkingDays()
	}
	return Calendar{days: days}
}

func (c Calendar) IsWorkingDay(date time.Time) bool {
	return c.days[strings.ToLower(date.Weekday().String())]
}

// NextWorkingDay rolls date forward to the next working day. If date itself
// is a working day it is returned unchanged (the n=0 case used when
// validating a proposed date).
func (c Calendar) NextWorkingDay(date time.Time) time.Time {
	for !c.IsWorkingDay(date) {
		date = date.AddDate(0, 0, 1)
	}
	return date
}

// AddWorkingDays advances n working days from date. The starting date is
// first rolled to a working day, so AddWorkingDays(d, 0) == NextWorkingDay(d).
func (c Calendar) AddWorkingDays(date time.Time, n int) time.Time {
	if n < 0 {
		return c.SubWorkingDays(date, -n)
	}
	date = c.NextWorkingDay(date)
	for i := 0; i < n; i++ {
		date = date.AddDate(0, 0, 1)
		date = c.NextWorkingDay(date)
	}
	return date
}

// SubWorkingDays walks n working days backwards from date.
func (c Calendar) SubWorkingDays(date time.Time, n int) time.Time {
	for !c.IsWorkingDay(date) {
		date = date.AddDate(0, 0, -1)
	}
	for i := 0; i < n; i++ {
		date = date.AddDate(0, 0, -1)
		for !c.IsWorkingDay(date) {
			date = date.AddDate(0, 0, -1)
		}
	}
	return date
}
