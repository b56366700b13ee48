package expense

import (
	"time"
)

// Categories is the fixed set offered by the entry form. It is enforced at the
// HTTP edge only; the store persists any category string it is handed.
var Categories = []string{
	"Housing",
	"Utilities",
	"Groceries",
	"Transportation",
	"Dining Out",
	"Shopping",
	"Health & Insurance",
	"Entertainment",
	"Education",
	"Subscriptions",
	"Savings & Investments",
	"Others",
}

// IsKnownCategory reports whether category is one of the fixed labels.
func IsKnownCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Expense is a single recorded spending entry.
//
// OccurredAt is a local, zone-naive date-time. It is persisted as epoch
// milliseconds computed in the application's configured zone at write time;
// if that zone changes between write and read, entries near month boundaries
// can appear to shift into an adjacent month. Known limitation.
type Expense struct {
	ID         string
	Title      string
	Amount     float64
	Category   string
	OccurredAt time.Time
}

// CategoryTotal is a derived (category, total) projection over one month.
// It exists only as a query result and is never stored.
type CategoryTotal struct {
	Category string
	Total    float64
}
