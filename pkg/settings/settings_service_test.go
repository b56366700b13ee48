package settings

import (
	"context"
	"testing"

	"github.com/expensio/expensio/internal/event_bus"
	"github.com/expensio/expensio/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceImpl_Get_DefaultWhenNeverSaved(t *testing.T) {
	// given
	service := NewService(NewStubRepo(), nil)

	// when
	s, err := service.Get(context.Background())

	// then
	require.NoError(t, err)
	assert.Equal(t, DefaultMonthlyBudget, s.MonthlyBudget)
}

func TestServiceImpl_SaveThenGet(t *testing.T) {
	service := NewService(NewStubRepo(), nil)
	ctx := context.Background()

	require.NoError(t, service.Save(ctx, Settings{MonthlyBudget: 1500}))

	s, err := service.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, s.MonthlyBudget)
}

func TestServiceImpl_Save_PublishesBudgetChanged(t *testing.T) {
	bus := event_bus.NewEventBus()
	service := NewService(NewStubRepo(), bus)

	var got event_bus.BudgetChanged
	bus.Subscribe(event_bus.BudgetChangedEvent, func(e event_bus.Event) error {
		got = e.Data.(event_bus.BudgetChanged)
		return nil
	})

	require.NoError(t, service.Save(context.Background(), Settings{MonthlyBudget: 2500}))

	assert.Equal(t, 2500.0, got.MonthlyBudget)
}

func TestRepoImpl_RoundTrip(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	// unset key
	_, err := repo.GetFloat(ctx, "monthly_budget")
	assert.ErrorIs(t, err, ErrNotSet)

	// write, overwrite, read back
	require.NoError(t, repo.SetFloat(ctx, "monthly_budget", 1800))
	require.NoError(t, repo.SetFloat(ctx, "monthly_budget", 2200.50))

	value, err := repo.GetFloat(ctx, "monthly_budget")
	require.NoError(t, err)
	assert.Equal(t, 2200.50, value)
}
