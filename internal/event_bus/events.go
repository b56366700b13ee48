package event_bus

import "time"

const (
	ExpenseCreatedEvent EventType = "expense.created"
	ExpenseUpdatedEvent EventType = "expense.updated"
	ExpenseDeletedEvent EventType = "expense.deleted"
	MonthReloadedEvent  EventType = "expense.month_reloaded"
	BudgetChangedEvent  EventType = "settings.budget_changed"
)

// Payloads deliberately carry plain fields instead of domain types so the bus
// package stays import-free of the feature packages.

type ExpenseCreated struct {
	Id         string
	Title      string
	Amount     float64
	Category   string
	OccurredAt time.Time
}

type ExpenseUpdated struct {
	Id         string
	Title      string
	Amount     float64
	Category   string
	OccurredAt time.Time
}

type ExpenseDeleted struct {
	Id string
}

type MonthReloaded struct {
	Year  int
	Month time.Month
	Count int
}

type BudgetChanged struct {
	MonthlyBudget float64
}
