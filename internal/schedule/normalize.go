package schedule

import "time"

// Normalize snaps t backward to the latest working instant at or before it.
//
//   - non-working day or before hours: previous working day at WorkEnd
//   - after hours: WorkEnd the same day
//   - inside lunch: LunchStart the same day
//   - otherwise: t with seconds dropped
//
// The result is expressed in the business timezone. Normalize is idempotent.
func (c Calendar) Normalize(t time.Time) time.Time {
	t = c.In(t)
	s := c.Schedule
	switch c.Classify(t) {
	case NonWorkingDay, BeforeHours:
		return s.WorkEnd.On(c.PreviousWorkingDay(t))
	case AfterHours:
		return s.WorkEnd.On(t)
	case Lunch:
		return s.LunchStart.On(t)
	}
	return ClockOf(t).On(t)
}
