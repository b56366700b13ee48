package expense

import (
	"context"
	"testing"
	"time"

	"github.com/expensio/expensio/internal/event_bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march = Month{2024, time.March}

func setupService(t *testing.T) (context.Context, *ServiceImpl, *StubRepo, *event_bus.EventBus) {
	t.Helper()
	repoStub := NewStubRepo()
	bus := event_bus.NewEventBus()
	service := NewService(repoStub, bus)
	return context.Background(), service, repoStub, bus
}

func TestServiceImpl_LoadMonth_ReplacesCache(t *testing.T) {
	// given
	ctx, service, repoStub, _ := setupService(t)
	inMarch := expenseAt("m1", 10, "Groceries", time.Date(2024, time.March, 3, 9, 0, 0, 0, time.UTC))
	inApril := expenseAt("a1", 20, "Groceries", time.Date(2024, time.April, 3, 9, 0, 0, 0, time.UTC))
	require.NoError(t, repoStub.Insert(ctx, inMarch))
	require.NoError(t, repoStub.Insert(ctx, inApril))

	// when
	items, err := service.LoadMonth(ctx, march, time.UTC)

	// then
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "m1", items[0].ID)

	// loading another month clears the previous one out entirely
	items, err = service.LoadMonth(ctx, march.Next(), time.UTC)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a1", items[0].ID)
}

func TestServiceImpl_Add_AppendsAtEndAndWritesThrough(t *testing.T) {
	ctx, service, repoStub, _ := setupService(t)
	older := expenseAt("old", 5, "Others", time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC))
	newer := expenseAt("new", 6, "Others", time.Date(2024, time.March, 20, 8, 0, 0, 0, time.UTC))
	require.NoError(t, repoStub.Insert(ctx, newer))
	_, err := service.LoadMonth(ctx, march, time.UTC)
	require.NoError(t, err)

	// when: the older expense is added after the load
	require.NoError(t, service.Add(ctx, older))

	// then: cache order is append-at-end, not occurredAt order
	items := service.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].ID)
	assert.Equal(t, "old", items[1].ID)

	// the store got the row regardless
	start, end := march.Bounds(time.UTC)
	rows, err := repoStub.ListByRange(ctx, start, end)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// the next LoadMonth reconciles the ordering
	items, err = service.LoadMonth(ctx, march, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "new", items[0].ID)
	assert.Equal(t, "old", items[1].ID)
}

func TestServiceImpl_Add_DuplicateIdPropagates(t *testing.T) {
	ctx, service, _, _ := setupService(t)
	e := expenseAt("dup", 5, "Others", time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, service.Add(ctx, e))

	err := service.Add(ctx, e)

	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestServiceImpl_Update_PatchesCacheInPlace(t *testing.T) {
	ctx, service, repoStub, _ := setupService(t)
	first := expenseAt("f", 5, "Others", time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC))
	second := expenseAt("s", 6, "Others", time.Date(2024, time.March, 5, 8, 0, 0, 0, time.UTC))
	require.NoError(t, repoStub.Insert(ctx, first))
	require.NoError(t, repoStub.Insert(ctx, second))
	_, err := service.LoadMonth(ctx, march, time.UTC)
	require.NoError(t, err)

	updated := second
	updated.Title = "Renamed"
	require.NoError(t, service.Update(ctx, updated))

	// position unchanged, content replaced
	items := service.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "f", items[0].ID)
	assert.Equal(t, "Renamed", items[1].Title)
}

func TestServiceImpl_Update_WritesThroughWithoutCacheHit(t *testing.T) {
	ctx, service, repoStub, _ := setupService(t)
	e := expenseAt("uncached", 5, "Others", time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, repoStub.Insert(ctx, e))
	// cache holds a different month
	_, err := service.LoadMonth(ctx, march.Next(), time.UTC)
	require.NoError(t, err)

	e.Amount = 99
	require.NoError(t, service.Update(ctx, e))

	start, end := march.Bounds(time.UTC)
	rows, err := repoStub.ListByRange(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 99.0, rows[0].Amount)
	assert.Empty(t, service.Items())
}

func TestServiceImpl_Delete_RemovesFromCacheAndStore(t *testing.T) {
	ctx, service, repoStub, _ := setupService(t)
	e := expenseAt("gone", 5, "Others", time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, repoStub.Insert(ctx, e))
	_, err := service.LoadMonth(ctx, march, time.UTC)
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, "gone"))

	assert.Empty(t, service.Items())
	items, err := service.LoadMonth(ctx, march, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestServiceImpl_Totals_BypassCache(t *testing.T) {
	ctx, service, repoStub, _ := setupService(t)
	e := expenseAt("t1", 12.5, "Groceries", time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, repoStub.Insert(ctx, e))
	// cache never loaded: totals still see the store

	total, err := service.MonthlyTotal(ctx, march, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 12.5, total)

	totals, err := service.TotalsByCategory(ctx, march, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []CategoryTotal{{"Groceries", 12.5}}, totals)
}

func TestServiceImpl_PublishesMutationEvents(t *testing.T) {
	ctx, service, _, bus := setupService(t)

	var seen []event_bus.EventType
	for _, eventType := range []event_bus.EventType{
		event_bus.ExpenseCreatedEvent,
		event_bus.ExpenseUpdatedEvent,
		event_bus.ExpenseDeletedEvent,
		event_bus.MonthReloadedEvent,
	} {
		et := eventType
		bus.Subscribe(et, func(e event_bus.Event) error {
			seen = append(seen, e.Type)
			return nil
		})
	}

	e := expenseAt("evt", 5, "Others", time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, service.Add(ctx, e))
	require.NoError(t, service.Update(ctx, e))
	require.NoError(t, service.Delete(ctx, e.ID))
	_, err := service.LoadMonth(ctx, march, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, []event_bus.EventType{
		event_bus.ExpenseCreatedEvent,
		event_bus.ExpenseUpdatedEvent,
		event_bus.ExpenseDeletedEvent,
		event_bus.MonthReloadedEvent,
	}, seen)
}
