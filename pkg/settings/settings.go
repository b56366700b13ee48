package settings

// DefaultMonthlyBudget is used when no budget has ever been saved.
const DefaultMonthlyBudget = 2000.0

// monthlyBudgetKey is the sole key stored today.
const monthlyBudgetKey = "monthly_budget"

// Settings holds the user-tunable values. The monthly budget is a target
// figure only; it is not a ledger entry and has no relation to expense rows.
type Settings struct {
	MonthlyBudget float64
}
