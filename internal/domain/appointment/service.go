package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/api/internal/domain/directory"
)

type Service struct {
	visits   VisitRepository
	doctors  directory.DoctorRepository
	patients directory.PatientRepository
}

func NewService(visits VisitRepository, doctors directory.DoctorRepository, patients directory.PatientRepository) *Service {
	return &Service{visits: visits, doctors: doctors, patients: patients}
}

func (s *Service) List(ctx context.Context) ([]*VisitListRow, error) {
	return s.visits.ListWithNames(ctx)
}

// Create books a visit after verifying the doctor and patient exist and
// the doctor's slot is free. A taken slot fails with SlotConflictError
// identifying the existing visit.
func (s *Service) Create(ctx context.Context, doctorID, patientID uuid.UUID, date time.Time, visitTime, comment string) (*Visit, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	if _, err := s.doctors.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}

	existing, err := s.visits.FindByDoctorSlot(ctx, doctorID, date, visitTime)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &SlotConflictError{VisitID: existing.ID, PatientID: existing.PatientID}
	}

	v := &Visit{
		DoctorID:  doctorID,
		PatientID: patientID,
		VisitDate: date,
		VisitTime: visitTime,
		Comment:   comment,
	}
	if err := s.visits.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.visits.Delete(ctx, id)
}
