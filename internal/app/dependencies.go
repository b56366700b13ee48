package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/expensio/expensio/internal/event_bus"
	"github.com/expensio/expensio/internal/utils"
	"github.com/expensio/expensio/pkg/expense"
	"github.com/expensio/expensio/pkg/month_view"
	"github.com/expensio/expensio/pkg/settings"
	"github.com/expensio/expensio/pkg/stats"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus   *event_bus.EventBus
	Clock utils.Clock

	ExpenseRepo    expense.Repo
	ExpenseService *expense.ServiceImpl
	ExpenseHandler *expense.Handler

	SettingsRepo    settings.Repo
	SettingsService *settings.ServiceImpl
	SettingsHandler *settings.Handler

	StatsService *stats.ServiceImpl
	StatsHandler *stats.Handler

	MonthViewService *month_view.Service
	MonthViewHandler *month_view.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, loc *time.Location) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.ExpenseRepo = expense.NewRepo(db, loc)
	deps.ExpenseService = expense.NewService(deps.ExpenseRepo, deps.Bus)
	deps.ExpenseHandler = expense.NewHandler(deps.ExpenseService, loc)

	deps.SettingsRepo = settings.NewRepo(db)
	deps.SettingsService = settings.NewService(deps.SettingsRepo, deps.Bus)
	deps.SettingsHandler = settings.NewHandler(deps.SettingsService)

	deps.StatsService = stats.NewService(deps.ExpenseService, deps.SettingsService)
	deps.StatsHandler = stats.NewHandler(deps.StatsService, deps.ExpenseService, loc)

	deps.MonthViewService = month_view.NewService(deps.ExpenseService, deps.SettingsService, deps.Clock, loc)
	deps.MonthViewHandler = month_view.NewHandler(deps.MonthViewService)

	if err := deps.MonthViewService.Start(context.Background(), deps.Bus); err != nil {
		return nil, err
	}

	return deps, nil
}
