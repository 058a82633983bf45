package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Clock is a time of day expressed as minutes since midnight.
type Clock int

// NewClock builds a Clock from an hour and minute.
func NewClock(hour, minute int) Clock { return Clock(hour*60 + minute) }

// ParseClock parses "HH:MM".
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q (want HH:MM)", s)
	}
	return NewClock(t.Hour(), t.Minute()), nil
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute()) }

// ClockOf returns the hour/minute of t. Seconds are ignored.
func ClockOf(t time.Time) Clock { return NewClock(t.Hour(), t.Minute()) }

// On returns the instant at clock c on t's calendar date, in t's location.
func (c Clock) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour(), c.Minute(), 0, 0, t.Location())
}

// Schedule holds the daily working window and the lunch break.
type Schedule struct {
	WorkStart  Clock
	LunchStart Clock
	LunchEnd   Clock
	WorkEnd    Clock
}

// DefaultSchedule is 08:00-17:00 with lunch 12:00-13:00.
func DefaultSchedule() Schedule {
	return Schedule{
		WorkStart:  NewClock(8, 0),
		LunchStart: NewClock(12, 0),
		LunchEnd:   NewClock(13, 0),
		WorkEnd:    NewClock(17, 0),
	}
}

// ParseSchedule parses the four boundaries and validates their order.
func ParseSchedule(workStart, lunchStart, lunchEnd, workEnd string) (Schedule, error) {
	var s Schedule
	var err error
	if s.WorkStart, err = ParseClock(workStart); err != nil {
		return Schedule{}, fmt.Errorf("workStart: %w", err)
	}
	if s.LunchStart, err = ParseClock(lunchStart); err != nil {
		return Schedule{}, fmt.Errorf("lunchStart: %w", err)
	}
	if s.LunchEnd, err = ParseClock(lunchEnd); err != nil {
		return Schedule{}, fmt.Errorf("lunchEnd: %w", err)
	}
	if s.WorkEnd, err = ParseClock(workEnd); err != nil {
		return Schedule{}, fmt.Errorf("workEnd: %w", err)
	}
	return s, s.Validate()
}

var ErrScheduleOrder = errors.New("schedule must satisfy workStart < lunchStart < lunchEnd < workEnd")

// Validate checks WorkStart < LunchStart < LunchEnd < WorkEnd within one day.
func (s Schedule) Validate() error {
	if s.WorkStart < 0 || s.WorkEnd >= NewClock(24, 0) {
		return fmt.Errorf("schedule outside of a day: %s-%s", s.WorkStart, s.WorkEnd)
	}
	if !(s.WorkStart < s.LunchStart && s.LunchStart < s.LunchEnd && s.LunchEnd < s.WorkEnd) {
		return fmt.Errorf("%w (got %s, %s, %s, %s)", ErrScheduleOrder, s.WorkStart, s.LunchStart, s.LunchEnd, s.WorkEnd)
	}
	return nil
}
