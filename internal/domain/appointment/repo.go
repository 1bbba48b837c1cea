package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrVisitNotFound = errors.New("visit not found")

// SlotConflictError reports that the doctor already has a visit at the
// requested date and time, identifying the visit occupying the slot.
type SlotConflictError struct {
	VisitID   uuid.UUID
	PatientID uuid.UUID
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("doctor already booked at this time by visit %s", e.VisitID)
}

type VisitRepository interface {
	Create(ctx context.Context, v *Visit) error
	GetByID(ctx context.Context, id uuid.UUID) (*Visit, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByDoctorSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, visitTime string) (*Visit, error)
	ListWithNames(ctx context.Context) ([]*VisitListRow, error)
}
