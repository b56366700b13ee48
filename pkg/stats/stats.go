package stats

import (
	"github.com/expensio/expensio/pkg/expense"
)

// Breakdown is one month's spending split per category. ByCategory partitions
// Total exactly: both come from the same store range.
type Breakdown struct {
	Month      expense.Month
	Total      float64
	ByCategory []expense.CategoryTotal
}

// TrendPoint is one bar of the monthly-totals chart: a month's spend against
// the budget target.
type TrendPoint struct {
	Month      expense.Month
	Total      float64
	Budget     float64
	OverBudget bool
}
