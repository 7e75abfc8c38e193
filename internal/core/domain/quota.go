package domain

import (
	"context"
	"errors"
	"time"
)

var ErrQuotaCounterNotFound = errors.New("quota counter not found")

// QuotaCounter is the audit row behind daily API budgets, one per
// (resource_name, day). Rows are created on the first reservation of a day,
// only ever incremented or decremented afterwards, and never deleted; a new
// day starts a new row.
type QuotaCounter struct {
	ResourceName string    `json:"resource_name" db:"resource_name"`
	Day          time.Time `json:"day" db:"day"`
	Count        int       `json:"count" db:"count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// QuotaReservation is the outcome of a reserve attempt. Exhaustion is a
// normal result, not an error: Granted false means the day's budget is spent
// and the caller should branch (typically to HTTP 429).
type QuotaReservation struct {
	Granted   bool `json:"granted"`
	Count     int  `json:"count"`
	Remaining int  `json:"remaining"`
}

// QuotaRepository is the storage port for quota counters. Implementations
// must make the check-and-increment a single atomic conditional write in the
// storage engine; a read-then-write pair lets two concurrent callers both
// pass the limit check. No in-process locking can substitute, since
// correctness must hold across process instances.
type QuotaRepository interface {
	// Reserve creates the (resource, day) row with count 1, or increments it
	// if and only if count is still below limit. Returns the new count and
	// whether the slot was granted; on a full counter the row is unchanged.
	Reserve(ctx context.Context, resource string, day time.Time, limit int) (int, bool, error)

	// Release decrements the counter, floored at zero. Releasing more times
	// than reserved, or releasing a missing row, is a harmless no-op.
	Release(ctx context.Context, resource string, day time.Time) error

	// Get returns the counter row, or ErrQuotaCounterNotFound.
	Get(ctx context.Context, resource string, day time.Time) (*QuotaCounter, error)
}
