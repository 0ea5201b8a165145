package progress

import "time"

const dateLayout = "2006-01-02"

// WeekWindow is a Monday..Sunday date range, both ends inclusive.
type WeekWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CurrentWeek returns the week window containing now, in now's location.
// time.Weekday counts Sunday as 0, hence the +6 shift to get a Monday start.
func CurrentWeek(now time.Time) WeekWindow {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return WeekWindow{
		Start: start,
		End:   start.AddDate(0, 0, 6),
	}
}

func (w WeekWindow) StartDate() string {
	return w.Start.Format(dateLayout)
}

func (w WeekWindow) EndDate() string {
	return w.End.Format(dateLayout)
}

func (w WeekWindow) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return !day.Before(w.Start) && !day.After(w.End)
}
