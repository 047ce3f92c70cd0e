package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/medishare/backend/internal/domain/catalog"
	"github.com/medishare/backend/internal/domain/clinic"
	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/redistribution"
	"github.com/medishare/backend/internal/domain/shared"
)

// aggregate is the pointer side of a stored record
type aggregate[T any] interface {
	*T
	GetID() uuid.UUID
	GetVersion() int
	ClearDomainEvents()
}

// memStore keeps copies of records keyed by ID in insertion order.
// Reads hand out fresh copies so callers never alias stored state.
type memStore[T any, P aggregate[T]] struct {
	mu     sync.Mutex
	entity string
	rows   map[uuid.UUID]T
	order  []uuid.UUID

	// FailSave, when set, is returned by the next Save or SaveWithLock
	FailSave error
}

func newMemStore[T any, P aggregate[T]](entity string) *memStore[T, P] {
	return &memStore[T, P]{entity: entity, rows: make(map[uuid.UUID]T)}
}

func (s *memStore[T, P]) find(id uuid.UUID) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, shared.NewNotFoundError(s.entity, id)
	}
	cp := row
	return &cp, nil
}

func (s *memStore[T, P]) put(v *T) {
	cp := *v
	P(&cp).ClearDomainEvents()
	id := P(&cp).GetID()
	if _, exists := s.rows[id]; !exists {
		s.order = append(s.order, id)
	}
	s.rows[id] = cp
}

func (s *memStore[T, P]) save(v *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	s.put(v)
	return nil
}

func (s *memStore[T, P]) saveWithLock(v *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	id := P(v).GetID()
	existing, ok := s.rows[id]
	if !ok {
		return shared.NewNotFoundError(s.entity, id)
	}
	if P(&existing).GetVersion() != P(v).GetVersion()-1 {
		return shared.ErrConcurrencyConflict
	}
	s.put(v)
	return nil
}

func (s *memStore[T, P]) takeFailure() error {
	err := s.FailSave
	s.FailSave = nil
	return err
}

func (s *memStore[T, P]) all(keep func(*T) bool, filter shared.Filter) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		row := s.rows[id]
		if keep(&row) {
			out = append(out, row)
		}
	}
	return paginate(out, filter)
}

func paginate[T any](rows []T, filter shared.Filter) []T {
	if filter.PageSize <= 0 {
		return rows
	}
	start := min(filter.Offset(), len(rows))
	end := min(start+filter.PageSize, len(rows))
	return rows[start:end]
}

// Remove deletes a record, simulating a row that no longer resolves
func (s *memStore[T, P]) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len reports how many records are stored
func (s *memStore[T, P]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// filterMatches reports whether the record value satisfies the filter key.
// Absent keys match everything.
func filterMatches[V comparable](f shared.Filter, key string, value V) bool {
	want, ok := f.Filters[key]
	if !ok {
		return true
	}
	w, ok := want.(V)
	return ok && w == value
}

// SurplusRepository is an in-memory redistribution.SurplusPostingRepository
type SurplusRepository struct {
	*memStore[redistribution.SurplusPosting, *redistribution.SurplusPosting]
}

// NewSurplusRepository creates an empty repository
func NewSurplusRepository() *SurplusRepository {
	return &SurplusRepository{newMemStore[redistribution.SurplusPosting, *redistribution.SurplusPosting]("Surplus posting")}
}

func (r *SurplusRepository) FindByID(_ context.Context, id uuid.UUID) (*redistribution.SurplusPosting, error) {
	return r.find(id)
}

func (r *SurplusRepository) FindAll(_ context.Context, f shared.Filter) ([]redistribution.SurplusPosting, error) {
	return r.all(func(sp *redistribution.SurplusPosting) bool {
		return filterMatches(f, "clinic_id", sp.ClinicID) && filterMatches(f, "status", sp.Status)
	}, f), nil
}

func (r *SurplusRepository) Save(_ context.Context, sp *redistribution.SurplusPosting) error {
	return r.save(sp)
}

func (r *SurplusRepository) SaveWithLock(_ context.Context, sp *redistribution.SurplusPosting) error {
	return r.saveWithLock(sp)
}

// RequestRepository is an in-memory redistribution.MedicineRequestRepository
type RequestRepository struct {
	*memStore[redistribution.MedicineRequest, *redistribution.MedicineRequest]
}

// NewRequestRepository creates an empty repository
func NewRequestRepository() *RequestRepository {
	return &RequestRepository{newMemStore[redistribution.MedicineRequest, *redistribution.MedicineRequest]("Request")}
}

func (r *RequestRepository) FindByID(_ context.Context, id uuid.UUID) (*redistribution.MedicineRequest, error) {
	return r.find(id)
}

func (r *RequestRepository) FindAll(_ context.Context, f shared.Filter) ([]redistribution.MedicineRequest, error) {
	return r.all(func(req *redistribution.MedicineRequest) bool {
		return filterMatches(f, "clinic_id", req.ClinicID) &&
			filterMatches(f, "medicine_id", req.MedicineID) &&
			filterMatches(f, "status", req.Status)
	}, f), nil
}

func (r *RequestRepository) Save(_ context.Context, req *redistribution.MedicineRequest) error {
	return r.save(req)
}

func (r *RequestRepository) SaveWithLock(_ context.Context, req *redistribution.MedicineRequest) error {
	return r.saveWithLock(req)
}

// TransferRepository is an in-memory redistribution.TransferRepository
type TransferRepository struct {
	*memStore[redistribution.Transfer, *redistribution.Transfer]
}

// NewTransferRepository creates an empty repository
func NewTransferRepository() *TransferRepository {
	return &TransferRepository{newMemStore[redistribution.Transfer, *redistribution.Transfer]("Transfer")}
}

func (r *TransferRepository) FindByID(_ context.Context, id uuid.UUID) (*redistribution.Transfer, error) {
	return r.find(id)
}

func (r *TransferRepository) FindAll(_ context.Context, f shared.Filter) ([]redistribution.Transfer, error) {
	return r.all(func(t *redistribution.Transfer) bool {
		if want, ok := f.Filters["clinic_id"].(uuid.UUID); ok && !t.Involves(want) {
			return false
		}
		return filterMatches(f, "from_clinic_id", t.FromClinicID) &&
			filterMatches(f, "to_clinic_id", t.ToClinicID) &&
			filterMatches(f, "status", t.Status)
	}, f), nil
}

func (r *TransferRepository) Save(_ context.Context, t *redistribution.Transfer) error {
	return r.save(t)
}

func (r *TransferRepository) SaveWithLock(_ context.Context, t *redistribution.Transfer) error {
	return r.saveWithLock(t)
}

// InventoryRepository is an in-memory inventory.InventoryItemRepository
type InventoryRepository struct {
	*memStore[inventory.InventoryItem, *inventory.InventoryItem]
}

// NewInventoryRepository creates an empty repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{newMemStore[inventory.InventoryItem, *inventory.InventoryItem]("Inventory item")}
}

func (r *InventoryRepository) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	return r.find(id)
}

func (r *InventoryRepository) FindAll(_ context.Context, f shared.Filter) ([]inventory.InventoryItem, error) {
	return r.all(func(item *inventory.InventoryItem) bool {
		return filterMatches(f, "clinic_id", item.ClinicID) &&
			filterMatches(f, "medicine_id", item.MedicineID) &&
			filterMatches(f, "status", item.Status)
	}, f), nil
}

func (r *InventoryRepository) Save(_ context.Context, item *inventory.InventoryItem) error {
	return r.save(item)
}

func (r *InventoryRepository) SaveWithLock(_ context.Context, item *inventory.InventoryItem) error {
	return r.saveWithLock(item)
}

// MedicineRepository is an in-memory catalog.MedicineRepository
type MedicineRepository struct {
	*memStore[catalog.Medicine, *catalog.Medicine]
}

// NewMedicineRepository creates an empty repository
func NewMedicineRepository() *MedicineRepository {
	return &MedicineRepository{newMemStore[catalog.Medicine, *catalog.Medicine]("Medicine")}
}

func (r *MedicineRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Medicine, error) {
	return r.find(id)
}

func (r *MedicineRepository) FindByNameAndStrength(_ context.Context, name, strength string) (*catalog.Medicine, error) {
	found := r.all(func(m *catalog.Medicine) bool { return m.SameProduct(name, strength) }, shared.Unpaged())
	if len(found) == 0 {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Medicine "+name+" "+strength+" not found")
	}
	return &found[0], nil
}

func (r *MedicineRepository) FindAll(_ context.Context, f shared.Filter) ([]catalog.Medicine, error) {
	search := strings.ToLower(f.Search)
	out := r.all(func(m *catalog.Medicine) bool {
		if search != "" && !strings.Contains(strings.ToLower(m.Name), search) &&
			!strings.Contains(strings.ToLower(m.GenericName), search) {
			return false
		}
		return filterMatches(f, "category", m.Category)
	}, shared.Unpaged())
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, f), nil
}

func (r *MedicineRepository) Save(_ context.Context, m *catalog.Medicine) error {
	return r.save(m)
}

// ClinicRepository is an in-memory clinic.ClinicRepository
type ClinicRepository struct {
	*memStore[clinic.Clinic, *clinic.Clinic]
}

// NewClinicRepository creates an empty repository
func NewClinicRepository() *ClinicRepository {
	return &ClinicRepository{newMemStore[clinic.Clinic, *clinic.Clinic]("Clinic")}
}

func (r *ClinicRepository) FindByID(_ context.Context, id uuid.UUID) (*clinic.Clinic, error) {
	return r.find(id)
}

func (r *ClinicRepository) FindAll(_ context.Context, f shared.Filter) ([]clinic.Clinic, error) {
	return r.all(func(c *clinic.Clinic) bool {
		return filterMatches(f, "state", c.State) && filterMatches(f, "district", c.District)
	}, f), nil
}

func (r *ClinicRepository) Save(_ context.Context, c *clinic.Clinic) error {
	return r.save(c)
}

var (
	_ redistribution.SurplusPostingRepository  = (*SurplusRepository)(nil)
	_ redistribution.MedicineRequestRepository = (*RequestRepository)(nil)
	_ redistribution.TransferRepository        = (*TransferRepository)(nil)
	_ inventory.InventoryItemRepository        = (*InventoryRepository)(nil)
	_ catalog.MedicineRepository               = (*MedicineRepository)(nil)
	_ clinic.ClinicRepository                  = (*ClinicRepository)(nil)
)
