package schedule

import (
	"fmt"
	"slices"
	"time"

	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
)

// Window describes a working day. Times are HH:mm; lunch is optional and
// half-open: [LunchStart, LunchEnd).
type Window struct {
	Start           string
	End             string
	IntervalMinutes int
	LunchStart      string
	LunchEnd        string
}

// ParseHM converts HH:mm into minutes since midnight.
func ParseHM(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", hm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatHM converts minutes since midnight into HH:mm.
func FormatHM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func (w Window) HasLunch() bool {
	return w.LunchStart != "" && w.LunchEnd != ""
}

// Validate checks the window without generating slots.
func (w Window) Validate() error {
	_, err := w.bounds()
	return err
}

type bounds struct {
	start, end           int
	lunchStart, lunchEnd int
	lunch                bool
}

func (w Window) bounds() (bounds, error) {
	var b bounds
	var err error

	if w.IntervalMinutes <= 0 {
		return b, httperr.ErrBusiness("invalid_interval")
	}
	if b.start, err = ParseHM(w.Start); err != nil {
		return b, httperr.ErrBusiness("invalid_start_time")
	}
	if b.end, err = ParseHM(w.End); err != nil {
		return b, httperr.ErrBusiness("invalid_end_time")
	}
	if b.end < b.start {
		return b, httperr.ErrBusiness("end_before_start")
	}

	if w.LunchStart == "" && w.LunchEnd == "" {
		return b, nil
	}
	if !w.HasLunch() {
		return b, httperr.ErrBusiness("incomplete_lunch_window")
	}
	if b.lunchStart, err = ParseHM(w.LunchStart); err != nil {
		return b, httperr.ErrBusiness("invalid_lunch_start")
	}
	if b.lunchEnd, err = ParseHM(w.LunchEnd); err != nil {
		return b, httperr.ErrBusiness("invalid_lunch_end")
	}
	if b.lunchEnd <= b.lunchStart {
		return b, httperr.ErrBusiness("invalid_lunch_window")
	}

	// A lunch break starting at or after closing time does not clip the day.
	b.lunch = b.lunchStart < b.end
	return b, nil
}

// GenerateSlots walks from Start to End inclusive in IntervalMinutes steps,
// skipping instants inside lunch. The result is ordered and has no duplicates.
func GenerateSlots(w Window) ([]string, error) {
	b, err := w.bounds()
	if err != nil {
		return nil, err
	}

	slots := make([]string, 0, (b.end-b.start)/w.IntervalMinutes+1)
	for cur := b.start; cur <= b.end; cur += w.IntervalMinutes {
		if b.lunch && cur >= b.lunchStart && cur < b.lunchEnd {
			continue
		}
		slots = append(slots, FormatHM(cur))
	}

	return slots, nil
}

// RemoveBooked returns slots \ booked, keeping the order of slots.
func RemoveBooked(slots, booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}

	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if _, ok := taken[s]; ok {
			continue
		}
		out = append(out, s)
	}
	return out
}

// RemoveBefore drops slots strictly earlier than cutoff (HH:mm). Used to hide
// past times when the requested date is today.
func RemoveBefore(slots []string, cutoff string) []string {
	limit, err := ParseHM(cutoff)
	if err != nil {
		return slots
	}

	out := make([]string, 0, len(slots))
	for _, s := range slots {
		m, err := ParseHM(s)
		if err != nil || m < limit {
			continue
		}
		out = append(out, s)
	}
	return out
}

// MergeSlots unions several ordered slot lists into one ordered list.
func MergeSlots(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var minutes []int
	for _, l := range lists {
		for _, s := range l {
			if _, ok := seen[s]; ok {
				continue
			}
			m, err := ParseHM(s)
			if err != nil {
				continue
			}
			seen[s] = struct{}{}
			minutes = append(minutes, m)
		}
	}

	slices.Sort(minutes)

	out := make([]string, 0, len(minutes))
	for _, m := range minutes {
		out = append(out, FormatHM(m))
	}
	return out
}

// Contains reports whether slot is one of slots.
func Contains(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
