package expense

import (
	"context"
	"fmt"
	"sort"
)

// StubRepo is an in-memory Repo used by service tests. Rows keep their
// insertion order so ListByRange's tiebreak matches the SQL implementation.
type StubRepo struct {
	rows []Expense
}

func NewStubRepo() *StubRepo {
	return &StubRepo{}
}

func (s *StubRepo) Insert(ctx context.Context, e Expense) error {
	for _, row := range s.rows {
		if row.ID == e.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
	}
	s.rows = append(s.rows, e)
	return nil
}

func (s *StubRepo) Update(ctx context.Context, e Expense) error {
	for i, row := range s.rows {
		if row.ID == e.ID {
			s.rows[i] = e
			return nil
		}
	}
	// no-op on missing id, as the SQL implementation
	return nil
}

func (s *StubRepo) Delete(ctx context.Context, id string) error {
	for i, row := range s.rows {
		if row.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *StubRepo) ListByRange(ctx context.Context, start, end int64) ([]Expense, error) {
	var result []Expense
	for _, row := range s.rows {
		ms := row.OccurredAt.UnixMilli()
		if ms >= start && ms <= end {
			result = append(result, row)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].OccurredAt.UnixMilli() > result[j].OccurredAt.UnixMilli()
	})
	return result, nil
}

func (s *StubRepo) SumAmount(ctx context.Context, start, end int64) (float64, error) {
	total := 0.0
	for _, row := range s.rows {
		ms := row.OccurredAt.UnixMilli()
		if ms >= start && ms <= end {
			total += row.Amount
		}
	}
	return total, nil
}

func (s *StubRepo) SumByCategory(ctx context.Context, start, end int64) ([]CategoryTotal, error) {
	byCategory := map[string]float64{}
	for _, row := range s.rows {
		ms := row.OccurredAt.UnixMilli()
		if ms >= start && ms <= end {
			byCategory[row.Category] += row.Amount
		}
	}
	totals := make([]CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		totals = append(totals, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Total != totals[j].Total {
			return totals[i].Total > totals[j].Total
		}
		return totals[i].Category < totals[j].Category
	})
	return totals, nil
}

func (s *StubRepo) Cleanup() {
	s.rows = nil
}
