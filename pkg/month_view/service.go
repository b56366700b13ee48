package month_view

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/expensio/expensio/internal/event_bus"
	"github.com/expensio/expensio/internal/utils"
	"github.com/expensio/expensio/pkg/expense"
	"github.com/expensio/expensio/pkg/settings"
	log "github.com/sirupsen/logrus"
)

// Service holds the presentation state: the currently selected month and the
// budget scalar. It owns no expense data; the display list is derived from the
// expense service's cache on every read, re-sorted by occurrence time since
// the cache appends new entries at the end.
//
// It subscribes to expense mutation events and refreshes the cached month in
// response, so a mutation through any path is followed by a reload of the
// selected month. Rapid mutations race last-write-wins on the cache.
type Service struct {
	expenses expense.Service
	settings settings.Service
	clock    utils.Clock
	loc      *time.Location

	mu           sync.RWMutex
	currentMonth expense.Month
	budget       float64
}

func NewService(expenses expense.Service, settingsService settings.Service, clock utils.Clock, loc *time.Location) *Service {
	return &Service{
		expenses: expenses,
		settings: settingsService,
		clock:    clock,
		loc:      loc,
		budget:   settings.DefaultMonthlyBudget,
	}
}

// Start selects the current calendar month, reads the budget once, loads the
// month into the expense cache, and subscribes to mutation events.
func (s *Service) Start(ctx context.Context, bus *event_bus.EventBus) error {
	current, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.currentMonth = expense.MonthOf(s.clock.Now().In(s.loc))
	s.budget = current.MonthlyBudget
	month := s.currentMonth
	s.mu.Unlock()

	if _, err := s.expenses.LoadMonth(ctx, month, s.loc); err != nil {
		return err
	}

	reload := func(e event_bus.Event) error {
		_, err := s.expenses.LoadMonth(e.Context(), s.CurrentMonth(), s.loc)
		return err
	}
	bus.Subscribe(event_bus.ExpenseCreatedEvent, reload)
	bus.Subscribe(event_bus.ExpenseUpdatedEvent, reload)
	bus.Subscribe(event_bus.ExpenseDeletedEvent, reload)
	bus.Subscribe(event_bus.BudgetChangedEvent, func(e event_bus.Event) error {
		changed, ok := e.Data.(event_bus.BudgetChanged)
		if !ok {
			log.Errorf("unexpected payload for %s: %T", e.Type, e.Data)
			return nil
		}
		s.mu.Lock()
		s.budget = changed.MonthlyBudget
		s.mu.Unlock()
		return nil
	})

	return nil
}

// CurrentMonth returns the selected month.
func (s *Service) CurrentMonth() expense.Month {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentMonth
}

// Current derives the view snapshot from the expense cache.
func (s *Service) Current() MonthView {
	items := sortedByOccurrence(s.expenses.Items())

	total := 0.0
	for _, item := range items {
		total += item.Amount
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return MonthView{
		Month:  s.currentMonth,
		Budget: s.budget,
		Total:  total,
		Items:  items,
	}
}

// ItemsByCategory filters the derived list down to one category, for the
// per-category drill-down screen.
func (s *Service) ItemsByCategory(category string) []expense.Expense {
	var filtered []expense.Expense
	for _, item := range sortedByOccurrence(s.expenses.Items()) {
		if item.Category == category {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// SetMonth selects a month and loads it.
func (s *Service) SetMonth(ctx context.Context, m expense.Month) error {
	s.mu.Lock()
	s.currentMonth = m
	s.mu.Unlock()

	_, err := s.expenses.LoadMonth(ctx, m, s.loc)
	return err
}

// ShiftMonth moves the selection by delta months (the UI's arrows use ±1, the
// trend screen ±6) and loads the result.
func (s *Service) ShiftMonth(ctx context.Context, delta int) (expense.Month, error) {
	s.mu.Lock()
	s.currentMonth = s.currentMonth.AddMonths(delta)
	m := s.currentMonth
	s.mu.Unlock()

	if _, err := s.expenses.LoadMonth(ctx, m, s.loc); err != nil {
		return m, err
	}
	return m, nil
}

func sortedByOccurrence(items []expense.Expense) []expense.Expense {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].OccurredAt.After(items[j].OccurredAt)
	})
	return items
}
