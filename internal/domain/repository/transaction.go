package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// This allows the use case layer to handle transactions without depending on a specific DB driver like GORM.
// Every booking state transition (create, reschedule, cancel) runs as one
// Execute unit so capacity changes, booking updates, and the audit append
// commit or roll back together.
type TransactionManager interface {
	// Execute runs a function within a database transaction.
	// If the function returns an error, the transaction is rolled back. Otherwise, it's committed.
	// All repository operations within the function will use the same database transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides a way to get repository instances that are bound to a specific transaction.
// This ensures all repository operations within a transaction use the same database connection.
type RepositoryFactory interface {
	// NewSlotRepository returns a SlotRepository instance bound to the current transaction.
	NewSlotRepository() SlotRepository

	// NewBookingRepository returns a BookingRepository instance bound to the current transaction.
	NewBookingRepository() BookingRepository

	// NewAuditRepository returns an AuditRepository instance bound to the current transaction.
	NewAuditRepository() AuditRepository
}
