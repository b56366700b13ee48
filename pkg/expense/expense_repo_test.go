package expense

import (
	"context"
	"testing"
	"time"

	"github.com/expensio/expensio/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) (context.Context, *RepoImpl) {
	ctx := context.Background()
	db := test_utils.SetupTestDB(t)
	return ctx, NewRepo(db, time.UTC)
}

func expenseAt(id string, amount float64, category string, occurredAt time.Time) Expense {
	return Expense{
		ID:         id,
		Title:      "Expense " + id,
		Amount:     amount,
		Category:   category,
		OccurredAt: occurredAt,
	}
}

func TestRepoImpl_InsertAndListByRange(t *testing.T) {
	// given
	ctx, repo := setupTestRepo(t)
	e := Expense{
		ID:         "a2f1c6d0-0000-4000-8000-000000000001",
		Title:      "Coffee",
		Amount:     4.50,
		Category:   "Dining Out",
		OccurredAt: time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Insert(ctx, e))

	// when
	start, end := Month{2024, time.March}.Bounds(time.UTC)
	rows, err := repo.ListByRange(ctx, start, end)

	// then
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, e.ID, rows[0].ID)
	assert.Equal(t, e.Title, rows[0].Title)
	assert.Equal(t, e.Amount, rows[0].Amount)
	assert.Equal(t, e.Category, rows[0].Category)
	assert.True(t, e.OccurredAt.Equal(rows[0].OccurredAt))
}

func TestRepoImpl_Insert_DuplicateId(t *testing.T) {
	// given
	ctx, repo := setupTestRepo(t)
	e := expenseAt("dup-id", 10, "Groceries", time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Insert(ctx, e))

	// when
	err := repo.Insert(ctx, e)

	// then
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestRepoImpl_ListByRange_OrderedMostRecentFirst(t *testing.T) {
	ctx, repo := setupTestRepo(t)
	base := time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, expenseAt("e1", 1, "Others", base)))
	require.NoError(t, repo.Insert(ctx, expenseAt("e2", 2, "Others", base.Add(48*time.Hour))))
	require.NoError(t, repo.Insert(ctx, expenseAt("e3", 3, "Others", base.Add(24*time.Hour))))
	// same instant as e1: insertion order breaks the tie
	require.NoError(t, repo.Insert(ctx, expenseAt("e4", 4, "Others", base)))

	start, end := Month{2024, time.March}.Bounds(time.UTC)
	rows, err := repo.ListByRange(ctx, start, end)

	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "e2", rows[0].ID)
	assert.Equal(t, "e3", rows[1].ID)
	assert.Equal(t, "e1", rows[2].ID)
	assert.Equal(t, "e4", rows[3].ID)
}

func TestRepoImpl_Update(t *testing.T) {
	ctx, repo := setupTestRepo(t)
	e := expenseAt("u1", 20, "Shopping", time.Date(2024, time.June, 2, 10, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Insert(ctx, e))

	e.Title = "New title"
	e.Amount = 25.5
	e.Category = "Entertainment"
	require.NoError(t, repo.Update(ctx, e))

	start, end := Month{2024, time.June}.Bounds(time.UTC)
	rows, err := repo.ListByRange(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "New title", rows[0].Title)
	assert.Equal(t, 25.5, rows[0].Amount)
	assert.Equal(t, "Entertainment", rows[0].Category)
}

func TestRepoImpl_Update_MissingIdIsNoOp(t *testing.T) {
	ctx, repo := setupTestRepo(t)

	err := repo.Update(ctx, expenseAt("ghost", 5, "Others", time.Date(2024, time.June, 2, 10, 0, 0, 0, time.UTC)))

	// Missing ids are silently tolerated.
	assert.NoError(t, err)
}

func TestRepoImpl_Delete(t *testing.T) {
	ctx, repo := setupTestRepo(t)
	e := expenseAt("d1", 8, "Groceries", time.Date(2024, time.June, 2, 10, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Insert(ctx, e))

	require.NoError(t, repo.Delete(ctx, "d1"))

	start, end := Month{2024, time.June}.Bounds(time.UTC)
	rows, err := repo.ListByRange(ctx, start, end)
	require.NoError(t, err)
	assert.Empty(t, rows)

	// Deleting again is a no-op.
	assert.NoError(t, repo.Delete(ctx, "d1"))
}

func TestRepoImpl_SumAmount_EmptyRangeIsZero(t *testing.T) {
	ctx, repo := setupTestRepo(t)

	start, end := Month{2024, time.March}.Bounds(time.UTC)
	total, err := repo.SumAmount(ctx, start, end)

	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestRepoImpl_SumByCategory_PartitionsMonthlyTotal(t *testing.T) {
	ctx, repo := setupTestRepo(t)
	day := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, expenseAt("c1", 12.25, "Groceries", day)))
	require.NoError(t, repo.Insert(ctx, expenseAt("c2", 30.00, "Housing", day.Add(time.Hour))))
	require.NoError(t, repo.Insert(ctx, expenseAt("c3", 7.75, "Groceries", day.Add(2*time.Hour))))

	start, end := Month{2024, time.March}.Bounds(time.UTC)
	totals, err := repo.SumByCategory(ctx, start, end)
	require.NoError(t, err)
	total, err := repo.SumAmount(ctx, start, end)
	require.NoError(t, err)

	require.Len(t, totals, 2)
	assert.Equal(t, CategoryTotal{"Housing", 30.00}, totals[0])
	assert.Equal(t, CategoryTotal{"Groceries", 20.00}, totals[1])

	sum := 0.0
	for _, ct := range totals {
		sum += ct.Total
	}
	assert.Equal(t, total, sum)
}

func TestRepoImpl_MonthBoundary_LastMillisecondInclusive(t *testing.T) {
	ctx, repo := setupTestRepo(t)
	march := Month{2024, time.March}

	_, end := march.Bounds(time.UTC)
	lastInstant := time.UnixMilli(end).In(time.UTC)
	require.NoError(t, repo.Insert(ctx, expenseAt("edge", 9.99, "Others", lastInstant)))

	// Still inside March...
	start, end := march.Bounds(time.UTC)
	rows, err := repo.ListByRange(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "edge", rows[0].ID)

	// ...and not inside April.
	start, end = march.Next().Bounds(time.UTC)
	rows, err = repo.ListByRange(ctx, start, end)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepoImpl_CoffeeScenario(t *testing.T) {
	ctx, repo := setupTestRepo(t)
	require.NoError(t, repo.Insert(ctx, Expense{
		ID:         "coffee",
		Title:      "Coffee",
		Amount:     4.50,
		Category:   "Dining Out",
		OccurredAt: time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC),
	}))

	start, end := Month{2024, time.March}.Bounds(time.UTC)

	total, err := repo.SumAmount(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, 4.50, total)

	totals, err := repo.SumByCategory(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, []CategoryTotal{{"Dining Out", 4.50}}, totals)
}
