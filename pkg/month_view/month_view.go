package month_view

import (
	"github.com/expensio/expensio/pkg/expense"
)

// MonthView is the snapshot the UI renders: the selected month, the budget
// target, and the month's expenses sorted most recent first with their running
// total.
type MonthView struct {
	Month  expense.Month
	Budget float64
	Total  float64
	Items  []expense.Expense
}
