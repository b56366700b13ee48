package expense

import "time"

// Month identifies one calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// AddMonths returns the month n months after m (n may be negative).
func (m Month) AddMonths(n int) Month {
	// time.Date normalizes out-of-range months.
	t := time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// Next returns the month immediately after m.
func (m Month) Next() Month {
	return m.AddMonths(1)
}

// Bounds resolves m into an inclusive epoch-millisecond range in the given
// zone: the first instant of the month through the last millisecond still
// inside it. Ranges of consecutive months are contiguous and non-overlapping:
// end(m)+1 == start(m.Next()).
//
// Callers must use the same zone on the write path (when OccurredAt was
// converted to millis) and the read path, or rows near month boundaries and
// daylight-saving transitions silently fall outside the expected month.
func (m Month) Bounds(loc *time.Location) (start int64, end int64) {
	start = time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc).UnixMilli()
	end = time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, loc).UnixMilli() - 1
	return start, end
}

func (m Month) String() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
