package settings

import "context"

type StubRepo struct {
	data map[string]float64
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[string]float64{}}
}

func (s *StubRepo) GetFloat(ctx context.Context, name string) (float64, error) {
	value, ok := s.data[name]
	if !ok {
		return 0, ErrNotSet
	}
	return value, nil
}

func (s *StubRepo) SetFloat(ctx context.Context, name string, value float64) error {
	s.data[name] = value
	return nil
}

func (s *StubRepo) Cleanup() {
	s.data = map[string]float64{}
}
