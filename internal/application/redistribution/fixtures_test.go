package redistribution

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medishare/backend/internal/domain/catalog"
	"github.com/medishare/backend/internal/domain/clinic"
	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/redistribution"
	"github.com/medishare/backend/internal/domain/shared"
	"github.com/medishare/backend/internal/infrastructure/cache"
	"github.com/medishare/backend/tests/testutil"
)

var testNow = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func daysFromNow(n int) time.Time {
	return testNow.Add(time.Duration(n) * 24 * time.Hour)
}

// MockEventBus is a mock implementation of EventBus for testing
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	m.Called(handler, eventTypes)
}

func (m *MockEventBus) Unsubscribe(handler shared.EventHandler) {
	m.Called(handler)
}

func (m *MockEventBus) Start(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockEventBus) Stop(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// testEnv wires every redistribution service over in-memory repositories
type testEnv struct {
	ctx context.Context

	surplusRepo   *testutil.SurplusRepository
	requestRepo   *testutil.RequestRepository
	transferRepo  *testutil.TransferRepository
	inventoryRepo *testutil.InventoryRepository
	medicineRepo  *testutil.MedicineRepository
	clinicRepo    *testutil.ClinicRepository
	publisher     *testutil.EventRecorder

	transfers *TransferService
	surplus   *SurplusService
	requests  *RequestService
	matching  *MatchingService

	sender   *clinic.Clinic
	receiver *clinic.Clinic
	medicine *catalog.Medicine
}

func newTestEnv(t *testing.T, completion redistribution.CompletionPolicy) *testEnv {
	t.Helper()

	e := &testEnv{
		ctx:           context.Background(),
		surplusRepo:   testutil.NewSurplusRepository(),
		requestRepo:   testutil.NewRequestRepository(),
		transferRepo:  testutil.NewTransferRepository(),
		inventoryRepo: testutil.NewInventoryRepository(),
		medicineRepo:  testutil.NewMedicineRepository(),
		clinicRepo:    testutil.NewClinicRepository(),
		publisher:     testutil.NewEventRecorder(),
	}

	locker := cache.NewInMemoryKeyLocker()
	txScope := NewNoOpTransactionScope(e.surplusRepo, e.requestRepo, e.transferRepo, e.inventoryRepo)
	workflow := redistribution.NewTransferWorkflow(completion, inventory.DefaultStockPolicy())

	e.transfers = NewTransferService(txScope, e.transferRepo, locker, workflow, WithTransferClock(fixedClock))
	e.transfers.SetEventPublisher(e.publisher)

	e.surplus = NewSurplusService(e.surplusRepo, e.inventoryRepo, locker)
	e.surplus.SetClock(fixedClock)
	e.surplus.SetEventPublisher(e.publisher)

	e.requests = NewRequestService(e.requestRepo, e.clinicRepo, e.medicineRepo, locker)
	e.requests.SetClock(fixedClock)
	e.requests.SetEventPublisher(e.publisher)

	finder := redistribution.NewMatchFinder(redistribution.NewMatchScorer(redistribution.DefaultScoringPolicy()))
	e.matching = NewMatchingService(e.surplusRepo, e.requestRepo, e.inventoryRepo, e.medicineRepo, e.clinicRepo, finder)
	e.matching.SetClock(fixedClock)

	e.sender = e.seedClinic(t, "Sender Clinic", "Pune")
	e.receiver = e.seedClinic(t, "Receiver Clinic", "Nashik")
	e.medicine = e.seedMedicine(t, "Amoxicillin")

	return e
}

func (e *testEnv) seedClinic(t *testing.T, name, district string) *clinic.Clinic {
	t.Helper()
	c, err := clinic.NewClinic(name, clinic.ClinicTypePrimaryHealth, "", district, "Maharashtra", clinic.Contact{}, testNow)
	require.NoError(t, err)
	require.NoError(t, e.clinicRepo.Save(e.ctx, c))
	return c
}

func (e *testEnv) seedMedicine(t *testing.T, name string) *catalog.Medicine {
	t.Helper()
	m, err := catalog.NewMedicine(catalog.MedicineSpec{Name: name, Strength: "500mg"}, testNow)
	require.NoError(t, err)
	require.NoError(t, e.medicineRepo.Save(e.ctx, m))
	return m
}

func (e *testEnv) seedItem(t *testing.T, owner *clinic.Clinic, qty int64, expiryDays int) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(owner.ID, e.medicine.ID, "BATCH-"+uuid.NewString()[:8], qty,
		inventory.UnitTablets, daysFromNow(expiryDays), inventory.DefaultStockPolicy(), testNow)
	require.NoError(t, err)
	require.NoError(t, e.inventoryRepo.Save(e.ctx, item))
	return item
}

func (e *testEnv) postSurplus(t *testing.T, item *inventory.InventoryItem, qty int64) uuid.UUID {
	t.Helper()
	resp, err := e.surplus.Post(e.ctx, PostSurplusRequest{
		InventoryItemID: item.ID,
		Quantity:        qty,
		Reason:          string(redistribution.SurplusReasonNearExpiry),
	})
	require.NoError(t, err)
	return resp.ID
}

func (e *testEnv) openRequest(t *testing.T, owner *clinic.Clinic, qty int64, urgency redistribution.Urgency) uuid.UUID {
	t.Helper()
	resp, err := e.requests.Create(e.ctx, CreateRequestRequest{
		ClinicID:   owner.ID,
		MedicineID: e.medicine.ID,
		Quantity:   qty,
		Unit:       string(inventory.UnitTablets),
		Urgency:    string(urgency),
	})
	require.NoError(t, err)
	return resp.ID
}

// scenario seeds stock at the sender, a surplus posting and an open request
type scenario struct {
	item      *inventory.InventoryItem
	surplusID uuid.UUID
	requestID uuid.UUID
}

func (e *testEnv) scenario(t *testing.T, stock, surplusQty, requestQty int64) scenario {
	t.Helper()
	item := e.seedItem(t, e.sender, stock, 45)
	s := scenario{
		item:      item,
		surplusID: e.postSurplus(t, item, surplusQty),
		requestID: e.openRequest(t, e.receiver, requestQty, redistribution.UrgencyHigh),
	}
	e.publisher.Reset()
	return s
}

func (e *testEnv) propose(t *testing.T, s scenario) uuid.UUID {
	t.Helper()
	result, err := e.transfers.Propose(e.ctx, ProposeTransferRequest{SurplusPostingID: s.surplusID, RequestID: s.requestID})
	require.NoError(t, err)
	return result.Transfer.ID
}

func (e *testEnv) surplusStatus(t *testing.T, id uuid.UUID) redistribution.SurplusStatus {
	t.Helper()
	sp, err := e.surplusRepo.FindByID(e.ctx, id)
	require.NoError(t, err)
	return sp.Status
}

func (e *testEnv) requestStatus(t *testing.T, id uuid.UUID) redistribution.RequestStatus {
	t.Helper()
	r, err := e.requestRepo.FindByID(e.ctx, id)
	require.NoError(t, err)
	return r.Status
}

func (e *testEnv) itemQuantity(t *testing.T, id uuid.UUID) int64 {
	t.Helper()
	item, err := e.inventoryRepo.FindByID(e.ctx, id)
	require.NoError(t, err)
	return item.Quantity
}
