package expense

import (
	"context"
	"sync"
	"time"

	"github.com/expensio/expensio/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// Service is the single access point the presentation layer uses. It keeps an
// in-memory list mirroring the most recently loaded month so the UI can render
// without re-querying, while every mutation writes through to the store.
//
// The cache is deliberately not kept continuously consistent with the store:
// Add appends at the end without resorting, and only LoadMonth refreshes the
// list from the store. Callers needing store ordering (or cross-month side
// effects reflected) must call LoadMonth again after a mutation. Overlapping
// LoadMonth calls race last-write-wins on the cache.
type Service interface {
	// LoadMonth replaces the whole cached list with the month's rows.
	LoadMonth(ctx context.Context, m Month, loc *time.Location) ([]Expense, error)
	// Add appends to the cache and inserts into the store.
	Add(ctx context.Context, e Expense) error
	// Update patches the first cached entry with a matching id in place and
	// writes through to the store regardless of a cache hit.
	Update(ctx context.Context, e Expense) error
	// Delete removes matching cache entries and deletes from the store.
	Delete(ctx context.Context, id string) error
	// Items returns a snapshot of the cached list, in cache order.
	Items() []Expense
	// MonthlyTotal bypasses the cache and sums the month in the store.
	MonthlyTotal(ctx context.Context, m Month, loc *time.Location) (float64, error)
	// TotalsByCategory bypasses the cache and aggregates per category.
	TotalsByCategory(ctx context.Context, m Month, loc *time.Location) ([]CategoryTotal, error)
}

type ServiceImpl struct {
	repo Repo
	bus  *event_bus.EventBus

	mu    sync.RWMutex
	items []Expense
}

func NewService(repo Repo, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus}
}

func (s *ServiceImpl) LoadMonth(ctx context.Context, m Month, loc *time.Location) ([]Expense, error) {
	start, end := m.Bounds(loc)
	list, err := s.repo.ListByRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.items = list
	s.mu.Unlock()

	s.publish(ctx, event_bus.MonthReloadedEvent, event_bus.MonthReloaded{
		Year:  m.Year,
		Month: m.Month,
		Count: len(list),
	})

	return s.Items(), nil
}

func (s *ServiceImpl) Add(ctx context.Context, e Expense) error {
	s.mu.Lock()
	// Appended at the end, not in sorted position; the cache order is stale
	// until the next LoadMonth.
	s.items = append(s.items, e)
	s.mu.Unlock()

	if err := s.repo.Insert(ctx, e); err != nil {
		return err
	}

	s.publish(ctx, event_bus.ExpenseCreatedEvent, event_bus.ExpenseCreated{
		Id:         e.ID,
		Title:      e.Title,
		Amount:     e.Amount,
		Category:   e.Category,
		OccurredAt: e.OccurredAt,
	})

	return nil
}

func (s *ServiceImpl) Update(ctx context.Context, e Expense) error {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == e.ID {
			s.items[i] = e
			break
		}
	}
	s.mu.Unlock()

	if err := s.repo.Update(ctx, e); err != nil {
		return err
	}

	s.publish(ctx, event_bus.ExpenseUpdatedEvent, event_bus.ExpenseUpdated{
		Id:         e.ID,
		Title:      e.Title,
		Amount:     e.Amount,
		Category:   e.Category,
		OccurredAt: e.OccurredAt,
	})

	return nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, event_bus.ExpenseDeletedEvent, event_bus.ExpenseDeleted{Id: id})

	return nil
}

func (s *ServiceImpl) Items() []Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]Expense, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}

func (s *ServiceImpl) MonthlyTotal(ctx context.Context, m Month, loc *time.Location) (float64, error) {
	start, end := m.Bounds(loc)
	return s.repo.SumAmount(ctx, start, end)
}

func (s *ServiceImpl) TotalsByCategory(ctx context.Context, m Month, loc *time.Location) ([]CategoryTotal, error) {
	start, end := m.Bounds(loc)
	return s.repo.SumByCategory(ctx, start, end)
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Errorf("failed to publish %s: %v", eventType, err)
	}
}
