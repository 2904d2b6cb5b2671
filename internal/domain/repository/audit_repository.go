package repository

import (
	"context"

	"slotwise/internal/domain/entity"
)

// AuditRepository appends booking audit records. Appends happen in the same
// transaction as the state change they describe, so no booking transition is
// ever recorded without a durable history entry.
type AuditRepository interface {
	// AppendAudit persists one audit record.
	AppendAudit(ctx context.Context, audit *entity.BookingAudit) error
}
