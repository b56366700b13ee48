package stats

import (
	"context"
	"time"

	"github.com/expensio/expensio/pkg/expense"
	"github.com/expensio/expensio/pkg/settings"
)

// TrendMonths is how far back the monthly-totals chart reaches.
const TrendMonths = 6

type Service interface {
	// CategoryBreakdown aggregates one month per category, store-accurate.
	CategoryBreakdown(ctx context.Context, m expense.Month, loc *time.Location) (Breakdown, error)
	// MonthlyTrend returns the n months ending at endMonth (oldest first),
	// each compared against the current budget target.
	MonthlyTrend(ctx context.Context, endMonth expense.Month, n int, loc *time.Location) ([]TrendPoint, error)
}

type ServiceImpl struct {
	expenses expense.Service
	settings settings.Service
}

func NewService(expenses expense.Service, settingsService settings.Service) *ServiceImpl {
	return &ServiceImpl{expenses: expenses, settings: settingsService}
}

func (s *ServiceImpl) CategoryBreakdown(ctx context.Context, m expense.Month, loc *time.Location) (Breakdown, error) {
	total, err := s.expenses.MonthlyTotal(ctx, m, loc)
	if err != nil {
		return Breakdown{}, err
	}
	byCategory, err := s.expenses.TotalsByCategory(ctx, m, loc)
	if err != nil {
		return Breakdown{}, err
	}

	return Breakdown{
		Month:      m,
		Total:      total,
		ByCategory: byCategory,
	}, nil
}

func (s *ServiceImpl) MonthlyTrend(ctx context.Context, endMonth expense.Month, n int, loc *time.Location) ([]TrendPoint, error) {
	if n <= 0 {
		n = TrendMonths
	}

	current, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	budget := current.MonthlyBudget

	points := make([]TrendPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		m := endMonth.AddMonths(-i)
		total, err := s.expenses.MonthlyTotal(ctx, m, loc)
		if err != nil {
			return nil, err
		}
		points = append(points, TrendPoint{
			Month:      m,
			Total:      total,
			Budget:     budget,
			OverBudget: total > budget,
		})
	}

	return points, nil
}
