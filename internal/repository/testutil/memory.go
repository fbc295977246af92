package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/repository"
)

// MemoryStore is an in-memory stand-in for the customers/addresses tables with
// the same observable semantics: unique phone numbers, cascade delete, and the
// list filter, sort and pagination rules.
type MemoryStore struct {
	mu        sync.Mutex
	customers map[int64]model.Customer
	addresses map[int64]model.Address
	nextCust  int64
	nextAddr  int64
	Now       func() time.Time
	FailWith  error // returned by every call when set
}

func NewMemoryStore() *MemoryStore {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int64
	return &MemoryStore{
		customers: map[int64]model.Customer{},
		addresses: map[int64]model.Address{},
		Now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	}
}

func (s *MemoryStore) Customers() *MemoryCustomers { return &MemoryCustomers{s} }
func (s *MemoryStore) Addresses() *MemoryAddresses { return &MemoryAddresses{s} }

type MemoryCustomers struct{ s *MemoryStore }

func (m *MemoryCustomers) phoneTaken(phone string, except int64) bool {
	for id, c := range m.s.customers {
		if id != except && c.PhoneNumber == phone {
			return true
		}
	}
	return false
}

func (m *MemoryCustomers) Create(_ context.Context, c *model.Customer) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.FailWith != nil {
		return m.s.FailWith
	}
	if m.phoneTaken(c.PhoneNumber, 0) {
		return appErrors.ErrDuplicatePhone
	}
	m.s.nextCust++
	c.ID = m.s.nextCust
	c.CreatedAt = m.s.Now()
	c.UpdatedAt = c.CreatedAt
	m.s.customers[c.ID] = *c
	return nil
}

func (m *MemoryCustomers) GetByID(_ context.Context, id int64) (*model.Customer, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.FailWith != nil {
		return nil, m.s.FailWith
	}
	c, ok := m.s.customers[id]
	if !ok {
		return nil, appErrors.NewNotFound("Customer", id)
	}
	return &c, nil
}

func (m *MemoryCustomers) Exists(_ context.Context, id int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.FailWith != nil {
		return false, m.s.FailWith
	}
	_, ok := m.s.customers[id]
	return ok, nil
}

func (m *MemoryCustomers) Update(_ context.Context, c *model.Customer) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.FailWith != nil {
		return m.s.FailWith
	}
	existing, ok := m.s.customers[c.ID]
	if !ok {
		return appErrors.NewNotFound("Customer", c.ID)
	}
	if m.phoneTaken(c.PhoneNumber, c.ID) {
		return appErrors.ErrDuplicatePhone
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = m.s.Now()
	m.s.customers[c.ID] = *c
	return nil
}

func (m *MemoryCustomers) Delete(_ context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.FailWith != nil {
		return m.s.FailWith
	}
	if _, ok := m.s.customers[id]; !ok {
		return appErrors.NewNotFound("Customer", id)
	}
	delete(m.s.customers, id)
	for aid, a := range m.s.addresses {
		if a.CustomerID == id {
			delete(m.s.addresses, aid)
		}
	}
	return nil
}

func (m *MemoryCustomers) matches(c model.Customer, f model.CustomerFilter) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.FirstName), term) &&
			!strings.Contains(strings.ToLower(c.LastName), term) &&
			!strings.Contains(strings.ToLower(c.PhoneNumber), term) {
			return false
		}
	}
	if !f.HasLocationFilter() {
		return true
	}
	for _, a := range m.s.addresses {
		if a.CustomerID != c.ID {
			continue
		}
		if (f.City == "" || a.City == f.City) &&
			(f.State == "" || a.State == f.State) &&
			(f.PinCode == "" || a.PinCode == f.PinCode) {
			return true
		}
	}
	return false
}

func sortKey(c model.Customer, col string) string {
	switch col {
	case "first_name":
		return c.FirstName
	case "last_name":
		return c.LastName
	case "phone_number":
		return c.PhoneNumber
	case "created_at":
		return c.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return ""
}

func (m *MemoryCustomers) List(_ context.Context, f model.CustomerFilter) ([]model.Customer, int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.FailWith != nil {
		return nil, 0, m.s.FailWith
	}
	// reuse the composer's validation so both stores reject the same input
	if _, err := repository.BuildCustomerListQuery(f); err != nil {
		return nil, 0, err
	}

	var matched []model.Customer
	for _, c := range m.s.customers {
		if m.matches(c, f) {
			matched = append(matched, c)
		}
	}

	desc := strings.EqualFold(f.SortOrder, "DESC")
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if f.SortBy == "id" {
			if desc {
				return a.ID > b.ID
			}
			return a.ID < b.ID
		}
		ka, kb := sortKey(a, f.SortBy), sortKey(b, f.SortBy)
		if ka != kb {
			if desc {
				return ka > kb
			}
			return ka < kb
		}
		return a.ID < b.ID
	})

	total := len(matched)
	start := f.Offset()
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return append([]model.Customer{}, matched[start:end]...), total, nil
}

func (m *MemoryCustomers) ListByAddressCount(_ context.Context, view repository.AddressCountView) ([]model.CustomerWithAddressCount, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.FailWith != nil {
		return nil, m.s.FailWith
	}

	counts := map[int64]int{}
	for _, a := range m.s.addresses {
		counts[a.CustomerID]++
	}
	out := []model.CustomerWithAddressCount{}
	for id, n := range counts {
		if (view == repository.SingleAddress && n == 1) || (view == repository.MultipleAddresses && n > 1) {
			out = append(out, model.CustomerWithAddressCount{Customer: m.s.customers[id], AddressCount: n})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type MemoryAddresses struct{ s *MemoryStore }

func (m *MemoryAddresses) Create(_ context.Context, a *model.Address) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.FailWith != nil {
		return m.s.FailWith
	}
	if _, ok := m.s.customers[a.CustomerID]; !ok {
		return appErrors.NewNotFound("Customer", a.CustomerID)
	}
	m.s.nextAddr++
	a.ID = m.s.nextAddr
	a.CreatedAt = m.s.Now()
	a.UpdatedAt = a.CreatedAt
	m.s.addresses[a.ID] = *a
	return nil
}

func (m *MemoryAddresses) ListByCustomer(_ context.Context, customerID int64) ([]model.Address, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.FailWith != nil {
		return nil, m.s.FailWith
	}
	out := []model.Address{}
	for _, a := range m.s.addresses {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryAddresses) Update(_ context.Context, a *model.Address) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.FailWith != nil {
		return m.s.FailWith
	}
	existing, ok := m.s.addresses[a.ID]
	if !ok {
		return appErrors.NewNotFound("Address", a.ID)
	}
	a.CustomerID = existing.CustomerID
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = m.s.Now()
	m.s.addresses[a.ID] = *a
	return nil
}

func (m *MemoryAddresses) Delete(_ context.Context, id int64) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.FailWith != nil {
		return 0, m.s.FailWith
	}
	a, ok := m.s.addresses[id]
	if !ok {
		return 0, appErrors.NewNotFound("Address", id)
	}
	delete(m.s.addresses, id)
	return a.CustomerID, nil
}

var (
	_ repository.CustomerRepositoryInterface = (*MemoryCustomers)(nil)
	_ repository.AddressRepositoryInterface  = (*MemoryAddresses)(nil)
)
