package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/api/internal/domain/directory"
)

// -- Mock Repositories --

type mockVisitRepo struct {
	visits map[uuid.UUID]*Visit
}

func newMockVisitRepo() *mockVisitRepo {
	return &mockVisitRepo{visits: make(map[uuid.UUID]*Visit)}
}

func (m *mockVisitRepo) Create(_ context.Context, v *Visit) error {
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	m.visits[v.ID] = v
	return nil
}

func (m *mockVisitRepo) GetByID(_ context.Context, id uuid.UUID) (*Visit, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, ErrVisitNotFound
	}
	return v, nil
}

func (m *mockVisitRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.visits[id]; !ok {
		return ErrVisitNotFound
	}
	delete(m.visits, id)
	return nil
}

func (m *mockVisitRepo) FindByDoctorSlot(_ context.Context, doctorID uuid.UUID, date time.Time, visitTime string) (*Visit, error) {
	for _, v := range m.visits {
		if v.DoctorID == doctorID && v.VisitDate.Equal(date) && v.VisitTime == visitTime {
			return v, nil
		}
	}
	return nil, nil
}

func (m *mockVisitRepo) ListWithNames(_ context.Context) ([]*VisitListRow, error) {
	var out []*VisitListRow
	for _, v := range m.visits {
		out = append(out, &VisitListRow{VisitID: v.ID, VisitDate: v.VisitDate, VisitTime: v.VisitTime})
	}
	return out, nil
}

type mockDoctorRepo struct {
	doctors map[uuid.UUID]*directory.Doctor
}

func (m *mockDoctorRepo) Create(_ context.Context, d *directory.Doctor) error {
	d.ID = uuid.New()
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*directory.Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, directory.ErrDoctorNotFound
	}
	return d, nil
}

func (m *mockDoctorRepo) List(_ context.Context, limit, offset int) ([]*directory.Doctor, int, error) {
	return nil, 0, nil
}

type mockPatientRepo struct {
	patients map[uuid.UUID]*directory.Patient
}

func (m *mockPatientRepo) Create(_ context.Context, p *directory.Patient) error {
	p.ID = uuid.New()
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*directory.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, directory.ErrPatientNotFound
	}
	return p, nil
}

func (m *mockPatientRepo) List(_ context.Context, limit, offset int) ([]*directory.Patient, int, error) {
	return nil, 0, nil
}

type fixture struct {
	svc      *Service
	visits   *mockVisitRepo
	doctorID uuid.UUID
	patient  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	doctors := &mockDoctorRepo{doctors: make(map[uuid.UUID]*directory.Doctor)}
	patients := &mockPatientRepo{patients: make(map[uuid.UUID]*directory.Patient)}

	d := &directory.Doctor{FirstName: "Ivan", LastName: "Petrov"}
	doctors.Create(context.Background(), d)
	p := &directory.Patient{FirstName: "Anna", LastName: "Smirnova"}
	patients.Create(context.Background(), p)

	visits := newMockVisitRepo()
	return &fixture{
		svc:      NewService(visits, doctors, patients),
		visits:   visits,
		doctorID: d.ID,
		patient:  p.ID,
	}
}

var slotDate = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

func TestCreate_Success(t *testing.T) {
	f := newFixture(t)

	v, err := f.svc.Create(context.Background(), f.doctorID, f.patient, slotDate, "10:30", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if v.ID == uuid.Nil {
		t.Error("visit id not assigned")
	}
	if len(f.visits.visits) != 1 {
		t.Errorf("visits stored = %d, want 1", len(f.visits.visits))
	}
}

func TestCreate_UnknownDoctor(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), uuid.New(), f.patient, slotDate, "10:30", "")
	if !errors.Is(err, directory.ErrDoctorNotFound) {
		t.Errorf("error = %v, want ErrDoctorNotFound", err)
	}
}

func TestCreate_UnknownPatient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.doctorID, uuid.New(), slotDate, "10:30", "")
	if !errors.Is(err, directory.ErrPatientNotFound) {
		t.Errorf("error = %v, want ErrPatientNotFound", err)
	}
}

func TestCreate_SlotConflict(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.Create(context.Background(), f.doctorID, f.patient, slotDate, "10:30", "")
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}

	_, err = f.svc.Create(context.Background(), f.doctorID, f.patient, slotDate, "10:30", "")
	var conflict *SlotConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %v, want SlotConflictError", err)
	}
	if conflict.VisitID != first.ID {
		t.Errorf("conflict visit = %s, want %s", conflict.VisitID, first.ID)
	}
}

func TestCreate_DifferentTimeSameDoctor(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Create(context.Background(), f.doctorID, f.patient, slotDate, "10:30", ""); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := f.svc.Create(context.Background(), f.doctorID, f.patient, slotDate, "11:00", ""); err != nil {
		t.Errorf("second Create at free slot: %v", err)
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(t)

	v, err := f.svc.Create(context.Background(), f.doctorID, f.patient, slotDate, "10:30", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.svc.Delete(context.Background(), v.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := f.svc.Delete(context.Background(), v.ID); !errors.Is(err, ErrVisitNotFound) {
		t.Errorf("second Delete error = %v, want ErrVisitNotFound", err)
	}
}
