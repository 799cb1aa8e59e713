package appointment

import "github.com/BruksfildServices01/clinica-otica/internal/models"

// ChangeStatus moves ap to the given status when the transition is allowed.
func ChangeStatus(ap *models.Appointment, to Status) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}
	ap.Status = string(to)
	return nil
}
