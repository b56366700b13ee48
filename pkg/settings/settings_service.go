package settings

import (
	"context"
	"errors"

	"github.com/expensio/expensio/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Get returns the stored settings, falling back to defaults for anything
	// never saved.
	Get(ctx context.Context) (Settings, error)
	// Save persists the settings and announces the new budget on the bus.
	Save(ctx context.Context, s Settings) error
}

type ServiceImpl struct {
	repo Repo
	bus  *event_bus.EventBus
}

func NewService(repo Repo, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus}
}

func (s *ServiceImpl) Get(ctx context.Context) (Settings, error) {
	budget, err := s.repo.GetFloat(ctx, monthlyBudgetKey)
	if err != nil {
		if errors.Is(err, ErrNotSet) {
			return Settings{MonthlyBudget: DefaultMonthlyBudget}, nil
		}
		return Settings{}, err
	}
	return Settings{MonthlyBudget: budget}, nil
}

func (s *ServiceImpl) Save(ctx context.Context, settings Settings) error {
	if err := s.repo.SetFloat(ctx, monthlyBudgetKey, settings.MonthlyBudget); err != nil {
		return err
	}

	if s.bus != nil {
		err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.BudgetChangedEvent, event_bus.BudgetChanged{
			MonthlyBudget: settings.MonthlyBudget,
		}))
		if err != nil {
			log.Errorf("failed to publish %s: %v", event_bus.BudgetChangedEvent, err)
		}
	}

	return nil
}
