package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Expenses
	r.HandleFunc("/api/expense", deps.ExpenseHandler.List).Queries("year", "{year}", "month", "{month}").Methods("GET")
	r.HandleFunc("/api/expense", deps.ExpenseHandler.Create).Methods("POST")
	r.HandleFunc("/api/expense/{id}", deps.ExpenseHandler.Update).Methods("PUT")
	r.HandleFunc("/api/expense/{id}", deps.ExpenseHandler.Delete).Methods("DELETE")

	// Month view
	r.HandleFunc("/api/view", deps.MonthViewHandler.GetView).Methods("GET")
	r.HandleFunc("/api/view/month", deps.MonthViewHandler.SetMonth).Methods("PUT")

	// Stats
	r.HandleFunc("/api/stats/total", deps.StatsHandler.GetMonthlyTotal).Queries("year", "{year}", "month", "{month}").Methods("GET")
	r.HandleFunc("/api/stats/categories", deps.StatsHandler.GetCategoryBreakdown).Queries("year", "{year}", "month", "{month}").Methods("GET")
	r.HandleFunc("/api/stats/trend", deps.StatsHandler.GetTrend).Queries("year", "{year}", "month", "{month}").Methods("GET")

	// Settings
	r.HandleFunc("/api/settings", deps.SettingsHandler.Get).Methods("GET")
	r.HandleFunc("/api/settings", deps.SettingsHandler.Update).Methods("PUT")
}
