package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Visit is a booked appointment slot: one doctor, one patient, one
// date/time. Billable services are attached to it separately.
type Visit struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	PatientID uuid.UUID `json:"patient_id"`
	VisitDate time.Time `json:"visit_date"`
	VisitTime string    `json:"visit_time"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// VisitListRow is one row of the appointment listing, with names resolved.
type VisitListRow struct {
	VisitID     uuid.UUID `json:"visitId"`
	PatientName string    `json:"patientName"`
	DoctorName  string    `json:"doctorName"`
	VisitDate   time.Time `json:"visitDate"`
	VisitTime   string    `json:"visitTime"`
}
