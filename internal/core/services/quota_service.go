package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daybook-app/daybook/internal/core/domain"
)

// QuotaService enforces hard daily ceilings on outbound API usage. All
// coordination lives in the storage port's atomic conditional write; the
// service holds no locks and is correct across process instances.
//
// Callers that reserve a slot and then fail downstream must release it
// themselves. Nothing expires reservations: a forgotten release permanently
// shrinks that day's budget.
type QuotaService struct {
	repo         domain.QuotaRepository
	limits       map[string]int
	defaultLimit int
	loc          *time.Location
	now          func() time.Time
}

// NewQuotaService builds a service with a shared default limit. The ledger
// day is computed in loc (UTC when nil) so every instance agrees on when a
// new budget starts.
func NewQuotaService(repo domain.QuotaRepository, defaultLimit int, loc *time.Location) *QuotaService {
	if loc == nil {
		loc = time.UTC
	}
	return &QuotaService{
		repo:         repo,
		limits:       make(map[string]int),
		defaultLimit: defaultLimit,
		loc:          loc,
		now:          time.Now,
	}
}

// SetLimit overrides the ceiling for one resource.
func (s *QuotaService) SetLimit(resource string, limit int) {
	s.limits[resource] = limit
}

// WithClock replaces the time source, for tests.
func (s *QuotaService) WithClock(now func() time.Time) *QuotaService {
	s.now = now
	return s
}

func (s *QuotaService) limitFor(resource string) int {
	if limit, ok := s.limits[resource]; ok {
		return limit
	}
	return s.defaultLimit
}

// ledgerDay truncates now to the calendar day the counter row is keyed by.
func (s *QuotaService) ledgerDay() time.Time {
	d := domain.DateOf(s.now(), s.loc)
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Reserve claims one slot for resource today. A spent budget is reported as
// Granted false, not as an error; errors mean the storage call itself
// failed and nothing was claimed.
func (s *QuotaService) Reserve(ctx context.Context, resource string) (domain.QuotaReservation, error) {
	limit := s.limitFor(resource)
	if limit < 1 {
		// A zero budget never grants; do not create a row just to say no.
		return domain.QuotaReservation{Granted: false}, nil
	}

	count, granted, err := s.repo.Reserve(ctx, resource, s.ledgerDay(), limit)
	if err != nil {
		return domain.QuotaReservation{}, fmt.Errorf("quota service: reserve %s: %w", resource, err)
	}

	reservation := domain.QuotaReservation{Granted: granted, Count: count}
	if granted {
		reservation.Remaining = limit - count
	}
	return reservation, nil
}

// Release returns one slot for resource today, floored at zero. Safe to call
// from retried failure handlers more than once.
func (s *QuotaService) Release(ctx context.Context, resource string) error {
	if err := s.repo.Release(ctx, resource, s.ledgerDay()); err != nil {
		return fmt.Errorf("quota service: release %s: %w", resource, err)
	}
	return nil
}

// Usage reports today's counter for resource; a day with no reservations
// yet reads as zero.
func (s *QuotaService) Usage(ctx context.Context, resource string) (*domain.QuotaCounter, error) {
	counter, err := s.repo.Get(ctx, resource, s.ledgerDay())
	if errors.Is(err, domain.ErrQuotaCounterNotFound) {
		return &domain.QuotaCounter{
			ResourceName: resource,
			Day:          s.ledgerDay(),
			Count:        0,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return counter, nil
}
