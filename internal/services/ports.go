package services

import (
	"context"

	"fintrack/internal/core"
)

// Store is the persistence surface the services depend on.
// *storage.SQLiteRepository satisfies it.
type Store interface {
	CreateUser(ctx context.Context, u core.User, defaults []core.CategorySpec) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)

	ListCategories(ctx context.Context, userID int64) ([]core.Category, error)
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)

	CreateTransaction(ctx context.Context, t core.Transaction) (core.TransactionView, error)
	ListTransactions(ctx context.Context, userID int64) ([]core.TransactionView, error)
	DeleteTransaction(ctx context.Context, userID, id int64) error
}

// Ledger event actions.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// EventPublisher notifies external consumers about transaction changes.
// Publishing is best-effort; callers must not fail a request on publish errors.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, transactionID, userID int64, action string) error
}

// NopPublisher is used when no message broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishLedgerEvent(ctx context.Context, transactionID, userID int64, action string) error {
	return nil
}
