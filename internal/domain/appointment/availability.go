package appointment

import (
	"github.com/BruksfildServices01/clinica-otica/internal/domain/schedule"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
)

type Availability struct {
	BranchID uint     `json:"branch_id"`
	Date     string   `json:"date"`
	Slots    []string `json:"slots"`
}

// OfferedSlots is the union of the slot lists of the active dates.
func OfferedSlots(dates []models.AvailableDate) []string {
	lists := make([][]string, 0, len(dates))
	for _, d := range dates {
		if d.Active {
			lists = append(lists, d.Slots)
		}
	}
	return schedule.MergeSlots(lists...)
}

// FreeSlots removes booked times and, when the date is today, times before
// nowHM.
func FreeSlots(offered, booked []string, isToday bool, nowHM string) []string {
	free := schedule.RemoveBooked(offered, booked)
	if isToday {
		free = schedule.RemoveBefore(free, nowHM)
	}
	return free
}

// DoctorFor returns the doctor of the first active date offering slot.
func DoctorFor(dates []models.AvailableDate, slot string) (uint, bool) {
	for _, d := range dates {
		if d.Active && schedule.Contains(d.Slots, slot) {
			return d.DoctorID, true
		}
	}
	return 0, false
}
