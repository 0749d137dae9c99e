package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
)

// TransactionInput carries the raw fields of a transaction creation request.
// Amount and Date arrive as strings and are parsed here.
type TransactionInput struct {
	CategoryID  int64                `json:"categoryId"`
	Type        core.TransactionType `json:"type"`
	Amount      string               `json:"amount"`
	Description *string              `json:"description"`
	Date        string               `json:"date"`
}

// TransactionService orchestrates ledger writes, reads and the home summary.
type TransactionService struct {
	store     Store
	publisher EventPublisher
	now       func() time.Time
}

func NewTransactionService(store Store, publisher EventPublisher) *TransactionService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &TransactionService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create parses and persists a transaction, then publishes a ledger event.
// Publish failures are logged, not returned: the write already succeeded.
func (s *TransactionService) Create(ctx context.Context, userID int64, in TransactionInput) (core.TransactionView, error) {
	if !in.Type.Valid() {
		return core.TransactionView{}, fmt.Errorf("invalid transaction type %q", in.Type)
	}

	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.TransactionView{}, fmt.Errorf("parse amount %q: %w", in.Amount, err)
	}

	date, err := core.ParseDateTime(in.Date)
	if err != nil {
		return core.TransactionView{}, fmt.Errorf("parse date %q: %w", in.Date, err)
	}

	view, err := s.store.CreateTransaction(ctx, core.Transaction{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Type:        in.Type,
		Amount:      amount,
		Description: in.Description,
		Date:        date,
	})
	if err != nil {
		return core.TransactionView{}, fmt.Errorf("create transaction: %w", err)
	}

	if err := s.publisher.PublishLedgerEvent(ctx, view.ID, userID, ActionCreated); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"transaction_id", view.ID, "action", ActionCreated, "error", err)
	}

	return view, nil
}

func (s *TransactionService) List(ctx context.Context, userID int64) ([]core.TransactionView, error) {
	views, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return views, nil
}

// Delete removes a transaction owned by userID; core.ErrNotFound covers both
// a missing row and a row owned by someone else.
func (s *TransactionService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}

	if err := s.publisher.PublishLedgerEvent(ctx, id, userID, ActionDeleted); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"transaction_id", id, "action", ActionDeleted, "error", err)
	}

	return nil
}

// HomeSummary aggregates the user's full ledger relative to the current month.
func (s *TransactionService) HomeSummary(ctx context.Context, userID int64) (core.HomeSummary, error) {
	views, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return core.HomeSummary{}, fmt.Errorf("list transactions: %w", err)
	}
	return core.BuildHomeSummary(s.now(), views), nil
}
