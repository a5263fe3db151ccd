package repositories

import (
	"time"

	"warung/internal/models"
)

// withAudit wraps an order mutator so the update timestamp is stamped at the
// repository boundary, once, instead of by every caller.
func withAudit(mutate func(*models.Order)) func(*models.Order) {
	return func(o *models.Order) {
		mutate(o)
		o.UpdatedAt = time.Now()
	}
}

// stampNew fills creation audit fields on a freshly persisted order, keeping
// any values a caller has already set.
func stampNew(o *models.Order) {
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = now
	}
}
