package payment

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// -- Mock Repositories --

// mockTxRunner serializes units of work with a mutex, standing in for the
// database transaction that serializes real pay calls on the payment
// uniqueness constraint and the contract row lock.
type mockTxRunner struct{ mu sync.Mutex }

func (m *mockTxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type mockVisitRepo struct {
	visits map[uuid.UUID]*BillableVisit
}

func newMockVisitRepo() *mockVisitRepo {
	return &mockVisitRepo{visits: make(map[uuid.UUID]*BillableVisit)}
}

func (m *mockVisitRepo) FindWithServices(_ context.Context, visitID uuid.UUID) (*BillableVisit, error) {
	return m.visits[visitID], nil
}

type mockEmploymentRepo struct {
	byPatient map[uuid.UUID]*Employment
}

func newMockEmploymentRepo() *mockEmploymentRepo {
	return &mockEmploymentRepo{byPatient: make(map[uuid.UUID]*Employment)}
}

func (m *mockEmploymentRepo) FindByPatient(_ context.Context, patientID uuid.UUID) (*Employment, error) {
	return m.byPatient[patientID], nil
}

type mockContractRepo struct {
	byOrg map[uuid.UUID]*OrgContract
}

func newMockContractRepo() *mockContractRepo {
	return &mockContractRepo{byOrg: make(map[uuid.UUID]*OrgContract)}
}

func (m *mockContractRepo) FindActiveByOrganizationForUpdate(_ context.Context, orgID uuid.UUID) (*OrgContract, error) {
	c := m.byOrg[orgID]
	if c == nil || !c.Active {
		return nil, nil
	}
	return c, nil
}

func (m *mockContractRepo) UpdateBalance(_ context.Context, contractID uuid.UUID, newBalance decimal.Decimal) error {
	for _, c := range m.byOrg {
		if c.ID == contractID {
			c.Balance = newBalance
			return nil
		}
	}
	return nil
}

type mockPaymentRepo struct {
	byVisit map[uuid.UUID]*Payment
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{byVisit: make(map[uuid.UUID]*Payment)}
}

func (m *mockPaymentRepo) FindByVisit(_ context.Context, visitID uuid.UUID) (*Payment, error) {
	return m.byVisit[visitID], nil
}

func (m *mockPaymentRepo) Create(_ context.Context, p *Payment) error {
	if _, ok := m.byVisit[p.VisitID]; ok {
		return ErrDuplicatePayment
	}
	p.ID = uuid.New()
	m.byVisit[p.VisitID] = p
	return nil
}

type mockProjectionRepo struct {
	rows []*VisitProjection
}

func (m *mockProjectionRepo) ListVisitProjections(_ context.Context) ([]*VisitProjection, error) {
	return m.rows, nil
}

type fixture struct {
	svc       *Service
	visits    *mockVisitRepo
	employ    *mockEmploymentRepo
	contracts *mockContractRepo
	payments  *mockPaymentRepo
}

func newFixture() *fixture {
	f := &fixture{
		visits:    newMockVisitRepo(),
		employ:    newMockEmploymentRepo(),
		contracts: newMockContractRepo(),
		payments:  newMockPaymentRepo(),
	}
	f.svc = NewService(&mockTxRunner{}, f.visits, f.employ, f.contracts, f.payments,
		&mockProjectionRepo{}, zerolog.Nop())
	return f
}

func (f *fixture) addVisit(costs ...string) *BillableVisit {
	v := &BillableVisit{ID: uuid.New(), PatientID: uuid.New()}
	for _, c := range costs {
		v.Services = append(v.Services, ServiceLine{
			ProvidedServiceID: uuid.New(),
			ServiceID:         uuid.New(),
			Cost:              dec(c),
		})
	}
	f.visits.visits[v.ID] = v
	return v
}

func (f *fixture) employPatient(patientID uuid.UUID, balance string) *OrgContract {
	orgID := uuid.New()
	f.employ.byPatient[patientID] = &Employment{PatientID: patientID, OrganizationID: orgID}
	c := &OrgContract{ID: uuid.New(), OrganizationID: orgID, Balance: dec(balance), Active: true}
	f.contracts.byOrg[orgID] = c
	return c
}

// -- Pay --

func TestPay_OrganizationalExhaustsBalance(t *testing.T) {
	f := newFixture()
	v := f.addVisit("700.00", "500.00")
	c := f.employPatient(v.PatientID, "1000.00")

	r, err := f.svc.Pay(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if !r.TotalPaid.Equal(dec("1200.00")) {
		t.Errorf("TotalPaid = %s, want 1200.00", r.TotalPaid)
	}
	if !r.FromContract.Equal(dec("1000.00")) || !r.ByClient.Equal(dec("200.00")) {
		t.Errorf("split = %s/%s, want 1000.00/200.00", r.FromContract, r.ByClient)
	}
	if !c.Balance.IsZero() {
		t.Errorf("contract balance = %s, want 0", c.Balance)
	}
}

func TestPay_OrganizationalCoveredInFull(t *testing.T) {
	f := newFixture()
	v := f.addVisit("300.00")
	c := f.employPatient(v.PatientID, "500.00")

	r, err := f.svc.Pay(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if !r.FromContract.Equal(dec("300.00")) || !r.ByClient.IsZero() {
		t.Errorf("split = %s/%s, want 300.00/0.00", r.FromContract, r.ByClient)
	}
	if !c.Balance.Equal(dec("200.00")) {
		t.Errorf("contract balance = %s, want 200.00", c.Balance)
	}
}

func TestPay_PrivatePatient(t *testing.T) {
	f := newFixture()
	v := f.addVisit("450.50")

	r, err := f.svc.Pay(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if !r.FromContract.IsZero() || !r.ByClient.Equal(dec("450.50")) {
		t.Errorf("split = %s/%s, want 0.00/450.50", r.FromContract, r.ByClient)
	}
}

func TestPay_SecondCallConflicts(t *testing.T) {
	f := newFixture()
	v := f.addVisit("700.00", "500.00")
	c := f.employPatient(v.PatientID, "1000.00")

	if _, err := f.svc.Pay(context.Background(), v.ID); err != nil {
		t.Fatalf("first Pay: %v", err)
	}

	_, err := f.svc.Pay(context.Background(), v.ID)
	pe, ok := err.(*Error)
	if !ok || pe.Kind != KindConflict {
		t.Fatalf("second Pay error = %v, want Conflict", err)
	}
	if pe.PaidAmount == nil || !pe.PaidAmount.Equal(dec("1200.00")) {
		t.Errorf("PaidAmount = %v, want 1200.00", pe.PaidAmount)
	}
	if !c.Balance.IsZero() {
		t.Errorf("balance changed on conflicting pay: %s", c.Balance)
	}
	if len(f.payments.byVisit) != 1 {
		t.Errorf("payment rows = %d, want 1", len(f.payments.byVisit))
	}
}

func TestPay_VisitNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Pay(context.Background(), uuid.New())
	if KindOf(err) != KindNotFound {
		t.Fatalf("error = %v, want NotFound", err)
	}
}

func TestPay_NoBillableServices(t *testing.T) {
	f := newFixture()
	v := f.addVisit()
	c := f.employPatient(v.PatientID, "1000.00")

	_, err := f.svc.Pay(context.Background(), v.ID)
	if KindOf(err) != KindInvalidState {
		t.Fatalf("error = %v, want InvalidState", err)
	}
	if !c.Balance.Equal(dec("1000.00")) {
		t.Errorf("balance mutated before validation: %s", c.Balance)
	}
}

func TestPay_EmployedWithoutContract(t *testing.T) {
	f := newFixture()
	v := f.addVisit("100.00")
	f.employ.byPatient[v.PatientID] = &Employment{PatientID: v.PatientID, OrganizationID: uuid.New()}

	_, err := f.svc.Pay(context.Background(), v.ID)
	pe, ok := err.(*Error)
	if !ok || pe.Kind != KindInvalidState {
		t.Fatalf("error = %v, want InvalidState", err)
	}
	if pe.Message != "organization has no active contract" {
		t.Errorf("message = %q", pe.Message)
	}
}

func TestPay_InactiveContractIgnored(t *testing.T) {
	f := newFixture()
	v := f.addVisit("100.00")
	c := f.employPatient(v.PatientID, "500.00")
	c.Active = false

	_, err := f.svc.Pay(context.Background(), v.ID)
	if KindOf(err) != KindInvalidState {
		t.Fatalf("error = %v, want InvalidState", err)
	}
}

func TestPay_ConcurrentSameVisit(t *testing.T) {
	f := newFixture()
	v := f.addVisit("250.00")
	f.employPatient(v.PatientID, "1000.00")

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Pay(context.Background(), v.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case KindOf(err) == KindConflict:
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != n-1 {
		t.Errorf("ok=%d conflicts=%d, want 1 and %d", ok, conflicts, n-1)
	}
	if len(f.payments.byVisit) != 1 {
		t.Errorf("payment rows = %d, want 1", len(f.payments.byVisit))
	}
}

func TestPay_ConcurrentSharedContractNeverOverdraws(t *testing.T) {
	f := newFixture()

	orgID := uuid.New()
	c := &OrgContract{ID: uuid.New(), OrganizationID: orgID, Balance: dec("1000.00"), Active: true}
	f.contracts.byOrg[orgID] = c

	const n = 8
	visitIDs := make([]uuid.UUID, n)
	for i := 0; i < n; i++ {
		v := f.addVisit("300.00")
		f.employ.byPatient[v.PatientID] = &Employment{PatientID: v.PatientID, OrganizationID: orgID}
		visitIDs[i] = v.ID
	}

	var wg sync.WaitGroup
	receipts := make(chan *Receipt, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			r, err := f.svc.Pay(context.Background(), id)
			if err != nil {
				t.Errorf("Pay: %v", err)
				return
			}
			receipts <- r
		}(visitIDs[i])
	}
	wg.Wait()
	close(receipts)

	totalFromContract := decimal.Zero
	for r := range receipts {
		totalFromContract = totalFromContract.Add(r.FromContract)
	}
	if totalFromContract.GreaterThan(dec("1000.00")) {
		t.Errorf("contract paid out %s, exceeding initial balance", totalFromContract)
	}
	if c.Balance.IsNegative() {
		t.Errorf("contract balance went negative: %s", c.Balance)
	}
	if !c.Balance.Add(totalFromContract).Equal(dec("1000.00")) {
		t.Errorf("balance %s + paid out %s != 1000.00", c.Balance, totalFromContract)
	}
}

// racePaymentRepo simulates losing the insert race: the first existence
// check sees no payment, the insert hits the uniqueness constraint, and
// later reads see the winner's row.
type racePaymentRepo struct {
	winner *Payment
	checks int
}

func (m *racePaymentRepo) FindByVisit(_ context.Context, _ uuid.UUID) (*Payment, error) {
	m.checks++
	if m.checks == 1 {
		return nil, nil
	}
	return m.winner, nil
}

func (m *racePaymentRepo) Create(_ context.Context, _ *Payment) error {
	return ErrDuplicatePayment
}

func TestPay_LostInsertRaceReportsConflict(t *testing.T) {
	visits := newMockVisitRepo()
	v := &BillableVisit{ID: uuid.New(), PatientID: uuid.New(),
		Services: []ServiceLine{{Cost: dec("80.00")}}}
	visits.visits[v.ID] = v

	payments := &racePaymentRepo{winner: &Payment{VisitID: v.ID, TotalAmount: dec("80.00")}}
	svc := NewService(&mockTxRunner{}, visits, newMockEmploymentRepo(), newMockContractRepo(),
		payments, &mockProjectionRepo{}, zerolog.Nop())

	_, err := svc.Pay(context.Background(), v.ID)
	pe, ok := err.(*Error)
	if !ok || pe.Kind != KindConflict {
		t.Fatalf("error = %v, want Conflict", err)
	}
	if pe.PaidAmount == nil || !pe.PaidAmount.Equal(dec("80.00")) {
		t.Errorf("PaidAmount = %v, want 80.00", pe.PaidAmount)
	}
}
