package schedule

import (
	"fmt"
	"sort"
	"time"
)

// Date is a civil calendar date with no time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return DateOf(t), nil
}

func (d Date) String() string { return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day) }

func (d Date) before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// HolidaySet is an immutable set of non-working dates.
type HolidaySet struct {
	days map[Date]struct{}
}

func NewHolidaySet(dates ...Date) HolidaySet {
	m := make(map[Date]struct{}, len(dates))
	for _, d := range dates {
		m[d] = struct{}{}
	}
	return HolidaySet{days: m}
}

// ParseHolidaySet builds a set from ISO date strings. Any malformed entry fails the whole set.
func ParseHolidaySet(raw []string) (HolidaySet, error) {
	dates := make([]Date, 0, len(raw))
	for i, s := range raw {
		d, err := ParseDate(s)
		if err != nil {
			return HolidaySet{}, fmt.Errorf("entry %d: %w", i, err)
		}
		dates = append(dates, d)
	}
	return NewHolidaySet(dates...), nil
}

func (h HolidaySet) Contains(d Date) bool {
	_, ok := h.days[d]
	return ok
}

func (h HolidaySet) Len() int { return len(h.days) }

// Dates returns the holidays in ascending order.
func (h HolidaySet) Dates() []Date {
	out := make([]Date, 0, len(h.days))
	for d := range h.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].before(out[j]) })
	return out
}

// Strings returns the holidays as sorted ISO dates.
func (h HolidaySet) Strings() []string {
	ds := h.Dates()
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}

// Position is where an instant falls relative to the working schedule.
type Position int

const (
	NonWorkingDay Position = iota
	BeforeHours
	Morning
	Lunch
	Afternoon
	AfterHours
)

func (p Position) String() string {
	switch p {
	case NonWorkingDay:
		return "non_working_day"
	case BeforeHours:
		return "before_hours"
	case Morning:
		return "morning"
	case Lunch:
		return "lunch"
	case Afternoon:
		return "afternoon"
	case AfterHours:
		return "after_hours"
	}
	return fmt.Sprintf("position(%d)", int(p))
}

// Calendar evaluates instants against a schedule, a business timezone and a holiday set.
// It is a value type; every method is a pure function of its inputs.
type Calendar struct {
	Location *time.Location
	Schedule Schedule
	Holidays HolidaySet
}

func NewCalendar(loc *time.Location, s Schedule, h HolidaySet) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Location: loc, Schedule: s, Holidays: h}
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// In converts t to the business timezone.
func (c Calendar) In(t time.Time) time.Time { return t.In(c.loc()) }

// IsHoliday reports whether t's business-timezone date is a holiday.
func (c Calendar) IsHoliday(t time.Time) bool {
	return c.Holidays.Contains(DateOf(c.In(t)))
}

// IsWorkingDay reports whether t falls on Monday-Friday and not on a holiday.
func (c Calendar) IsWorkingDay(t time.Time) bool {
	switch c.In(t).Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.IsHoliday(t)
}

// Classify places t relative to the schedule. Seconds are ignored, so 17:00:30 is
// still Afternoon and 12:00:30 is still Morning.
func (c Calendar) Classify(t time.Time) Position {
	t = c.In(t)
	if !c.IsWorkingDay(t) {
		return NonWorkingDay
	}
	m, s := ClockOf(t), c.Schedule
	switch {
	case m < s.WorkStart:
		return BeforeHours
	case m > s.WorkEnd:
		return AfterHours
	case m > s.LunchStart && m < s.LunchEnd:
		return Lunch
	case m <= s.LunchStart:
		return Morning
	default:
		return Afternoon
	}
}

// IsWorkingInstant reports whether t is inside [start,lunchStart) or [lunchEnd,end) on a working day.
func (c Calendar) IsWorkingInstant(t time.Time) bool {
	t = c.In(t)
	switch c.Classify(t) {
	case Morning:
		return ClockOf(t) < c.Schedule.LunchStart
	case Afternoon:
		return ClockOf(t) < c.Schedule.WorkEnd
	}
	return false
}

// PreviousWorkingDay walks back from the day strictly before t until a working day,
// keeping t's time of day. There is no iteration bound.
func (c Calendar) PreviousWorkingDay(t time.Time) time.Time {
	t = c.In(t)
	cur := addDays(t, -1)
	for !c.IsWorkingDay(cur) {
		cur = addDays(cur, -1)
	}
	return cur
}

// NextWorkingDay walks forward from the day strictly after t until a working day,
// keeping t's time of day. There is no iteration bound.
func (c Calendar) NextWorkingDay(t time.Time) time.Time {
	t = c.In(t)
	cur := addDays(t, 1)
	for !c.IsWorkingDay(cur) {
		cur = addDays(cur, 1)
	}
	return cur
}

// addDays moves n calendar days keeping wall-clock hour and minute; seconds are dropped.
func addDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, t.Hour(), t.Minute(), 0, 0, t.Location())
}
