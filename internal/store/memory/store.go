package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/faroukali99/reserveFound/internal/models"
	"github.com/faroukali99/reserveFound/internal/store"
	"github.com/shopspring/decimal"
)

// RecordStore is an in-memory store.RecordStore, safe for concurrent
// use. Primarily backs tests and local development.
type RecordStore struct {
	mu         sync.Mutex
	records    []models.ReserveFund
	references map[string]int64
	nextID     int64
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		references: make(map[string]int64),
		nextID:     1,
	}
}

func (m *RecordStore) Create(ctx context.Context, fund *models.ReserveFund) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked(fund)
}

func (m *RecordStore) CreatePair(ctx context.Context, debit, credit *models.ReserveFund) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.references[debit.Reference]; taken {
		return store.ErrDuplicateReference
	}
	if _, taken := m.references[credit.Reference]; taken {
		return store.ErrDuplicateReference
	}
	if err := m.createLocked(debit); err != nil {
		return err
	}
	return m.createLocked(credit)
}

func (m *RecordStore) createLocked(fund *models.ReserveFund) error {
	if _, taken := m.references[fund.Reference]; taken {
		return store.ErrDuplicateReference
	}
	fund.ID = m.nextID
	m.nextID++
	if fund.CreatedAt.IsZero() {
		fund.CreatedAt = time.Now()
	}
	m.references[fund.Reference] = fund.ID
	m.records = append(m.records, *fund)
	return nil
}

func (m *RecordStore) GetByID(ctx context.Context, id int64) (*models.ReserveFund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.ID == id {
			found := r
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *RecordStore) GetByReference(ctx context.Context, reference string) (*models.ReserveFund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.references[reference]
	if !ok {
		return nil, store.ErrNotFound
	}
	for _, r := range m.records {
		if r.ID == id {
			found := r
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *RecordStore) ListByUser(ctx context.Context, userID int64) ([]models.ReserveFund, error) {
	return m.filter(func(r models.ReserveFund) bool { return r.UserID == userID }), nil
}

func (m *RecordStore) ListByStatus(ctx context.Context, status models.FundStatus) ([]models.ReserveFund, error) {
	return m.filter(func(r models.ReserveFund) bool { return r.Status == status }), nil
}

func (m *RecordStore) ListAll(ctx context.Context) ([]models.ReserveFund, error) {
	return m.filter(func(models.ReserveFund) bool { return true }), nil
}

func (m *RecordStore) ListByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]models.ReserveFund, error) {
	return m.filter(func(r models.ReserveFund) bool {
		return r.UserID == userID && !r.CreatedAt.Before(start) && !r.CreatedAt.After(end)
	}), nil
}

func (m *RecordStore) TotalActiveBalance(ctx context.Context) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := decimal.Zero
	for _, r := range m.records {
		if r.Status == models.StatusActive {
			total = total.Add(r.Balance)
		}
	}
	return total, nil
}

func (m *RecordStore) Update(ctx context.Context, fund *models.ReserveFund) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, r := range m.records {
		if r.ID == fund.ID {
			m.records[i] = *fund
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *RecordStore) filter(keep func(models.ReserveFund) bool) []models.ReserveFund {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.ReserveFund
	for _, r := range m.records {
		if keep(r) {
			result = append(result, r)
		}
	}
	return result
}

// AuditStore is an in-memory append-only store.AuditStore
type AuditStore struct {
	mu      sync.Mutex
	entries []models.AuditLog
	nextID  int64
}

func NewAuditStore() *AuditStore {
	return &AuditStore{nextID: 1}
}

func (m *AuditStore) Append(ctx context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.ID = m.nextID
	m.nextID++
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *AuditStore) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]models.AuditLog, error) {
	return m.filter(func(e models.AuditLog) bool {
		return e.EntityType == entityType && e.EntityID == entityID
	}), nil
}

func (m *AuditStore) ListByUser(ctx context.Context, userID int64) ([]models.AuditLog, error) {
	return m.filter(func(e models.AuditLog) bool { return e.UserID == userID }), nil
}

func (m *AuditStore) ListByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]models.AuditLog, error) {
	return m.filter(func(e models.AuditLog) bool {
		return e.UserID == userID && !e.Timestamp.Before(start) && !e.Timestamp.After(end)
	}), nil
}

func (m *AuditStore) ListByAction(ctx context.Context, action string) ([]models.AuditLog, error) {
	return m.filter(func(e models.AuditLog) bool { return e.Action == action }), nil
}

func (m *AuditStore) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	entries := m.filter(func(models.AuditLog) bool { return true })
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *AuditStore) filter(keep func(models.AuditLog) bool) []models.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.AuditLog
	for _, e := range m.entries {
		if keep(e) {
			result = append(result, e)
		}
	}
	return result
}

var (
	_ store.RecordStore = (*RecordStore)(nil)
	_ store.AuditStore  = (*AuditStore)(nil)
)
