package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/daybook-app/daybook/internal/core/domain"
)

type MetricService struct {
	repo     domain.MetricRepository
	userRepo domain.UserRepository
	now      func() time.Time
}

func NewMetricService(repo domain.MetricRepository, userRepo domain.UserRepository) *MetricService {
	return &MetricService{
		repo:     repo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *MetricService) WithClock(now func() time.Time) *MetricService {
	s.now = now
	return s
}

type CreateMetricInput struct {
	UserID string
	Name   string
	Unit   string
}

type RecordSampleInput struct {
	MetricID   string
	UserID     string
	Value      decimal.Decimal
	RecordedAt time.Time
}

func (s *MetricService) Create(ctx context.Context, input CreateMetricInput) (*domain.Metric, error) {
	metric, err := domain.NewMetric(input.UserID, input.Name, input.Unit)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateMetric(ctx, metric); err != nil {
		return nil, err
	}
	return metric, nil
}

func (s *MetricService) GetByID(ctx context.Context, id, userID string) (*domain.Metric, error) {
	metric, err := s.repo.GetMetricByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if metric.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return metric, nil
}

func (s *MetricService) ListByUserID(ctx context.Context, userID string) ([]*domain.Metric, error) {
	return s.repo.ListMetricsByUserID(ctx, userID)
}

func (s *MetricService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.DeleteMetric(ctx, id, userID)
}

func (s *MetricService) RecordSample(ctx context.Context, input RecordSampleInput) (*domain.MetricSample, error) {
	if _, err := s.GetByID(ctx, input.MetricID, input.UserID); err != nil {
		return nil, err
	}

	sample, err := domain.NewMetricSample(input.MetricID, input.UserID, input.Value, input.RecordedAt)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddSample(ctx, sample); err != nil {
		return nil, err
	}
	return sample, nil
}

// ListRecentSamples returns a metric's samples over the last n local days in
// the owner's timezone, today included.
func (s *MetricService) ListRecentSamples(ctx context.Context, metricID, userID string, days int) ([]*domain.MetricSample, error) {
	if _, err := s.GetByID(ctx, metricID, userID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	loc, err := user.Location()
	if err != nil {
		return nil, err
	}

	window, err := domain.LastNDaysWindow(s.now(), days, loc)
	if err != nil {
		return nil, err
	}

	return s.repo.ListSamplesInWindow(ctx, metricID, window)
}
