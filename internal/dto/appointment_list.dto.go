package dto

import "github.com/BruksfildServices01/clinica-otica/internal/models"

type AppointmentListDTO struct {
	ID          uint   `json:"id"`
	BranchID    uint   `json:"branch_id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Status      string `json:"status"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email,omitempty"`
	DoctorID    *uint  `json:"doctor_id,omitempty"`
	DoctorName  string `json:"doctor_name,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

func AppointmentList(ap models.Appointment) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:          ap.ID,
		BranchID:    ap.BranchID,
		Date:        ap.Date,
		Time:        ap.Time,
		Status:      ap.Status,
		ClientName:  ap.ClientName,
		ClientPhone: ap.ClientPhone,
		ClientEmail: ap.ClientEmail,
		DoctorID:    ap.DoctorID,
		Notes:       ap.Notes,
	}
	if ap.Doctor != nil {
		out.DoctorName = ap.Doctor.Name
	}
	return out
}
