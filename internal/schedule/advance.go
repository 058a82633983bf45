package schedule

import (
	"math"
	"time"
)

// AddWorkingDays moves t forward n working days keeping its hour and minute.
// t is expected to be normalized. The landing time of day is not checked against
// lunch or working hours; only the landing date is guaranteed to be a working day.
func (c Calendar) AddWorkingDays(t time.Time, n int) time.Time {
	if n <= 0 {
		return t
	}
	cur := c.In(t)
	clock := ClockOf(cur)
	for i := 0; i < n; i++ {
		cur = clock.On(c.NextWorkingDay(cur))
	}
	return cur
}

// AddWorkingHours moves t forward n working hours, consuming the morning and
// afternoon segments and skipping lunch, nights, weekends and holidays.
func (c Calendar) AddWorkingHours(t time.Time, n int) time.Time {
	if n <= 0 {
		return t
	}
	s := c.Schedule
	cur := c.In(t)
	remaining := n * 60

	for remaining > 0 {
		switch c.Classify(cur) {
		case NonWorkingDay, AfterHours:
			cur = s.WorkStart.On(c.NextWorkingDay(cur))
			continue
		case BeforeHours:
			cur = s.WorkStart.On(cur)
			continue
		case Lunch:
			cur = s.LunchEnd.On(cur)
			continue
		}

		morning := ClockOf(cur) <= s.LunchStart
		segEnd := s.WorkEnd.On(cur)
		if morning {
			segEnd = s.LunchStart.On(cur)
		}
		available := int(math.Max(0, math.Round(segEnd.Sub(cur).Minutes())))

		if available == 0 {
			cur = c.nextSegment(cur, morning)
			continue
		}
		if remaining <= available {
			cur = cur.Add(time.Duration(remaining) * time.Minute)
			remaining = 0
			continue
		}
		remaining -= available
		cur = c.nextSegment(segEnd, morning)
	}
	return cur
}

// nextSegment is LunchEnd the same day after a morning segment, otherwise
// WorkStart on the next working day.
func (c Calendar) nextSegment(t time.Time, morning bool) time.Time {
	if morning {
		return c.Schedule.LunchEnd.On(t)
	}
	return c.Schedule.WorkStart.On(c.NextWorkingDay(t))
}

// Compute runs normalize, then days, then hours, and returns the result in UTC.
func (c Calendar) Compute(start time.Time, days, hours int) time.Time {
	cur := c.Normalize(start)
	if days > 0 {
		cur = c.AddWorkingDays(cur, days)
	}
	if hours > 0 {
		cur = c.AddWorkingHours(cur, hours)
	}
	return cur.UTC()
}
