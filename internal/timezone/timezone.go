package timezone

import "time"

const (
	DefaultTimezone = "America/Sao_Paulo"

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Location resolves tz, falling back to DefaultTimezone and finally UTC.
func Location(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// DateOf returns the calendar date of t in tz as YYYY-MM-DD.
func DateOf(t time.Time, tz string) string {
	return t.In(Location(tz)).Format(DateLayout)
}

// ParseDate parses YYYY-MM-DD as midnight in tz.
func ParseDate(tz, s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, Location(tz))
}
