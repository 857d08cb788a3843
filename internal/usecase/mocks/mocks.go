package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/traveldesk/cashbox/internal/domain"
	"github.com/traveldesk/cashbox/internal/usecase"
)

// MockCashBoxRepository is a mock implementation of CashBoxRepository.
type MockCashBoxRepository struct {
	mu     sync.RWMutex
	boxes  map[int64]*domain.CashBox
	nextID int64

	CreateFunc                  func(ctx context.Context, box *domain.CashBox) error
	GetByIDFunc                 func(ctx context.Context, id int64) (*domain.CashBox, error)
	ListByEmployeeFunc          func(ctx context.Context, employeeID int64) ([]*domain.CashBox, error)
	ListByEmployeeForUpdateFunc func(ctx context.Context, tx usecase.Transaction, employeeID int64) ([]*domain.CashBox, error)
	ListEmployeeIDsFunc         func(ctx context.Context) ([]int64, error)
	NextBoxNumberFunc           func(ctx context.Context, employeeID int64) (int, error)
	UpdateOpeningBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error
	HideFunc                    func(ctx context.Context, id int64, updatedAt time.Time) error
}

func NewMockCashBoxRepository() *MockCashBoxRepository {
	return &MockCashBoxRepository{
		boxes: make(map[int64]*domain.CashBox),
	}
}

func (m *MockCashBoxRepository) Create(ctx context.Context, box *domain.CashBox) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, box)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.boxes {
		if b.Visible && b.EmployeeID == box.EmployeeID && b.BoxNumber == box.BoxNumber {
			return domain.ErrBoxNumberTaken
		}
	}
	if box.ID == 0 {
		m.nextID++
		box.ID = m.nextID
	}
	m.boxes[box.ID] = box
	return nil
}

func (m *MockCashBoxRepository) GetByID(ctx context.Context, id int64) (*domain.CashBox, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if box, ok := m.boxes[id]; ok && box.Visible {
		return box, nil
	}
	return nil, domain.ErrCashBoxNotFound
}

func (m *MockCashBoxRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*domain.CashBox, error) {
	if m.ListByEmployeeFunc != nil {
		return m.ListByEmployeeFunc(ctx, employeeID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var boxes []*domain.CashBox
	for _, box := range m.boxes {
		if box.Visible && box.EmployeeID == employeeID {
			boxes = append(boxes, box)
		}
	}
	sort.Slice(boxes, func(i, j int) bool { return boxes[i].ID < boxes[j].ID })
	return boxes, nil
}

func (m *MockCashBoxRepository) ListByEmployeeForUpdate(ctx context.Context, tx usecase.Transaction, employeeID int64) ([]*domain.CashBox, error) {
	if m.ListByEmployeeForUpdateFunc != nil {
		return m.ListByEmployeeForUpdateFunc(ctx, tx, employeeID)
	}
	return m.ListByEmployee(ctx, employeeID)
}

func (m *MockCashBoxRepository) ListEmployeeIDs(ctx context.Context) ([]int64, error) {
	if m.ListEmployeeIDsFunc != nil {
		return m.ListEmployeeIDsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[int64]bool)
	var ids []int64
	for _, box := range m.boxes {
		if box.Visible && !seen[box.EmployeeID] {
			seen[box.EmployeeID] = true
			ids = append(ids, box.EmployeeID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *MockCashBoxRepository) NextBoxNumber(ctx context.Context, employeeID int64) (int, error) {
	if m.NextBoxNumberFunc != nil {
		return m.NextBoxNumberFunc(ctx, employeeID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	max := 0
	for _, box := range m.boxes {
		if box.Visible && box.EmployeeID == employeeID && box.BoxNumber > max {
			max = box.BoxNumber
		}
	}
	return max + 1, nil
}

func (m *MockCashBoxRepository) UpdateOpeningBalance(ctx context.Context, tx usecase.Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateOpeningBalanceFunc != nil {
		return m.UpdateOpeningBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if box, ok := m.boxes[id]; ok {
		box.OpeningBalance = balance
		box.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockCashBoxRepository) Hide(ctx context.Context, id int64, updatedAt time.Time) error {
	if m.HideFunc != nil {
		return m.HideFunc(ctx, id, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if box, ok := m.boxes[id]; ok {
		box.Visible = false
		box.UpdatedAt = updatedAt
	}
	return nil
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[int64]*domain.LedgerEntry
	nextID  int64

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	ListByCashBoxFunc   func(ctx context.Context, cashBoxID int64) ([]*domain.LedgerEntry, error)
	MapByCashBoxesFunc  func(ctx context.Context, tx usecase.Transaction, cashBoxIDs []int64) (map[int64][]*domain.LedgerEntry, error)
	ListIDsByCashBoxFunc func(ctx context.Context, tx usecase.Transaction, cashBoxID int64) ([]int64, error)
	DeleteByIDsFunc     func(ctx context.Context, tx usecase.Transaction, ids []int64) (int64, error)
	DeleteByCashBoxFunc func(ctx context.Context, tx usecase.Transaction, cashBoxID int64) (int64, error)
	CountByCashBoxFunc  func(ctx context.Context, cashBoxID int64) (int64, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[int64]*domain.LedgerEntry),
	}
}

// Seed inserts an entry directly, bypassing any CreateFunc override.
func (m *MockEntryRepository) Seed(entry *domain.LedgerEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.ID == 0 {
		m.nextID++
		entry.ID = m.nextID
	} else if entry.ID > m.nextID {
		m.nextID = entry.ID
	}
	m.entries[entry.ID] = entry
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.Seed(entry)
	return nil
}

func (m *MockEntryRepository) ListByCashBox(ctx context.Context, cashBoxID int64) ([]*domain.LedgerEntry, error) {
	if m.ListByCashBoxFunc != nil {
		return m.ListByCashBoxFunc(ctx, cashBoxID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.Visible && e.CashBoxID == cashBoxID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (m *MockEntryRepository) MapByCashBoxes(ctx context.Context, tx usecase.Transaction, cashBoxIDs []int64) (map[int64][]*domain.LedgerEntry, error) {
	if m.MapByCashBoxesFunc != nil {
		return m.MapByCashBoxesFunc(ctx, tx, cashBoxIDs)
	}
	result := make(map[int64][]*domain.LedgerEntry)
	for _, id := range cashBoxIDs {
		entries, _ := m.ListByCashBox(ctx, id)
		if len(entries) > 0 {
			result[id] = entries
		}
	}
	return result, nil
}

func (m *MockEntryRepository) ListIDsByCashBox(ctx context.Context, tx usecase.Transaction, cashBoxID int64) ([]int64, error) {
	if m.ListIDsByCashBoxFunc != nil {
		return m.ListIDsByCashBoxFunc(ctx, tx, cashBoxID)
	}
	entries, _ := m.ListByCashBox(ctx, cashBoxID)
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids, nil
}

func (m *MockEntryRepository) DeleteByIDs(ctx context.Context, tx usecase.Transaction, ids []int64) (int64, error) {
	if m.DeleteByIDsFunc != nil {
		return m.DeleteByIDsFunc(ctx, tx, ids)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if _, ok := m.entries[id]; ok {
			delete(m.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MockEntryRepository) DeleteByCashBox(ctx context.Context, tx usecase.Transaction, cashBoxID int64) (int64, error) {
	if m.DeleteByCashBoxFunc != nil {
		return m.DeleteByCashBoxFunc(ctx, tx, cashBoxID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for id, e := range m.entries {
		if e.CashBoxID == cashBoxID {
			delete(m.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MockEntryRepository) CountByCashBox(ctx context.Context, cashBoxID int64) (int64, error) {
	if m.CountByCashBoxFunc != nil {
		return m.CountByCashBoxFunc(ctx, cashBoxID)
	}
	entries, _ := m.ListByCashBox(ctx, cashBoxID)
	return int64(len(entries)), nil
}

// MockAdvanceRepository is a mock implementation of AdvanceRepository.
type MockAdvanceRepository struct {
	mu       sync.RWMutex
	advances map[int64]*domain.Advance
	nextID   int64

	CreateFunc         func(ctx context.Context, advance *domain.Advance) error
	GetByIDFunc        func(ctx context.Context, id int64) (*domain.Advance, error)
	ListByOwnerFunc    func(ctx context.Context, ownerID int64, limit, offset int) ([]*domain.Advance, error)
	MapByCashBoxesFunc func(ctx context.Context, tx usecase.Transaction, cashBoxIDs []int64) (map[int64][]*domain.Advance, error)
	UpdateCashBoxFunc  func(ctx context.Context, id int64, cashBoxID *int64, updatedAt time.Time) error
	DeleteFunc         func(ctx context.Context, id int64) error
	CountByCashBoxFunc func(ctx context.Context, cashBoxID int64) (int64, error)
}

func NewMockAdvanceRepository() *MockAdvanceRepository {
	return &MockAdvanceRepository{
		advances: make(map[int64]*domain.Advance),
	}
}

func (m *MockAdvanceRepository) Create(ctx context.Context, advance *domain.Advance) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, advance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if advance.ID == 0 {
		m.nextID++
		advance.ID = m.nextID
	} else if advance.ID > m.nextID {
		m.nextID = advance.ID
	}
	m.advances[advance.ID] = advance
	return nil
}

func (m *MockAdvanceRepository) GetByID(ctx context.Context, id int64) (*domain.Advance, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if adv, ok := m.advances[id]; ok && adv.Visible {
		return adv, nil
	}
	return nil, domain.ErrAdvanceNotFound
}

func (m *MockAdvanceRepository) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*domain.Advance, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var advances []*domain.Advance
	for _, adv := range m.advances {
		if adv.Visible && adv.OwnerID == ownerID {
			advances = append(advances, adv)
		}
	}
	sort.Slice(advances, func(i, j int) bool { return advances[i].ID < advances[j].ID })
	return advances, nil
}

func (m *MockAdvanceRepository) MapByCashBoxes(ctx context.Context, tx usecase.Transaction, cashBoxIDs []int64) (map[int64][]*domain.Advance, error) {
	if m.MapByCashBoxesFunc != nil {
		return m.MapByCashBoxesFunc(ctx, tx, cashBoxIDs)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[int64][]*domain.Advance)
	for _, boxID := range cashBoxIDs {
		for _, adv := range m.advances {
			if adv.Visible && adv.CashBoxID != nil && *adv.CashBoxID == boxID {
				result[boxID] = append(result[boxID], adv)
			}
		}
	}
	return result, nil
}

func (m *MockAdvanceRepository) UpdateCashBox(ctx context.Context, id int64, cashBoxID *int64, updatedAt time.Time) error {
	if m.UpdateCashBoxFunc != nil {
		return m.UpdateCashBoxFunc(ctx, id, cashBoxID, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if adv, ok := m.advances[id]; ok {
		adv.CashBoxID = cashBoxID
		adv.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAdvanceRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.advances, id)
	return nil
}

func (m *MockAdvanceRepository) CountByCashBox(ctx context.Context, cashBoxID int64) (int64, error) {
	if m.CountByCashBoxFunc != nil {
		return m.CountByCashBoxFunc(ctx, cashBoxID)
	}
	result, _ := m.MapByCashBoxes(ctx, nil, []int64{cashBoxID})
	return int64(len(result[cashBoxID])), nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	Logs []*domain.AuditLog

	CreateFunc func(ctx context.Context, log *domain.AuditLog) error
	ListFunc   func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Logs, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-run-" + strconv.Itoa(m.counter)
}

// MockEmployeeLocker is a mock implementation of EmployeeLocker.
type MockEmployeeLocker struct {
	mu   sync.Mutex
	held map[int64]bool

	AcquireFunc func(ctx context.Context, employeeID int64, ttl time.Duration) (func(context.Context) error, error)
}

func NewMockEmployeeLocker() *MockEmployeeLocker {
	return &MockEmployeeLocker{
		held: make(map[int64]bool),
	}
}

func (m *MockEmployeeLocker) Acquire(ctx context.Context, employeeID int64, ttl time.Duration) (func(context.Context) error, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, employeeID, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[employeeID] {
		return nil, domain.ErrEmployeeLocked
	}
	m.held[employeeID] = true
	return func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.held, employeeID)
		return nil
	}, nil
}

// MockRetrier is a mock implementation of Retrier that runs the operation once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
