package schedule

import (
	"slices"
	"time"

	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
)

// NormalizeWeekdays sorts and dedupes weekdays (0=Sunday..6). An empty or
// out-of-range list is invalid.
func NormalizeWeekdays(days []int) ([]int, error) {
	if len(days) == 0 {
		return nil, httperr.ErrBusiness("weekdays_required")
	}
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, httperr.ErrBusiness("invalid_weekday")
		}
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return out, nil
}

func WindowOf(cfg *models.ScheduleConfig) Window {
	return Window{
		Start:           cfg.OpenTime,
		End:             cfg.CloseTime,
		IntervalMinutes: cfg.IntervalMinutes,
		LunchStart:      cfg.LunchStart,
		LunchEnd:        cfg.LunchEnd,
	}
}

// MaxOpenRangeDays bounds a single OpenDays call.
const MaxOpenRangeDays = 366

// OpenDays lists the dates in [from, to] on which cfg operates.
func OpenDays(cfg *models.ScheduleConfig, from, to time.Time) ([]time.Time, error) {
	if to.Before(from) {
		return nil, httperr.ErrBusiness("end_before_start")
	}
	if to.Sub(from) > MaxOpenRangeDays*24*time.Hour {
		return nil, httperr.ErrBusiness("range_too_long")
	}

	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if cfg.OperatesOn(d.Weekday()) {
			days = append(days, d)
		}
	}
	return days, nil
}
