package service

import (
	"context"
	"log/slog"
	"strings"

	"budgeter/internal/events"
	"budgeter/internal/ledger"
	"budgeter/internal/models"
	"budgeter/internal/policy"
	"budgeter/internal/storage"
)

// TransactionParams carries the caller-editable fields of a transaction.
type TransactionParams struct {
	CategoryID   string
	Title        string
	Description  string
	Amount       float64
	TransactedAt int64
}

// TransactionService manages ledger entries. Any joined member may
// record transactions; edits, deletes and voids are restricted to the
// creator or the household owner.
type TransactionService struct {
	store     storage.Store
	publisher *events.Publisher
}

// NewTransactionService creates a transaction service. publisher may be
// nil, in which case no ledger events are emitted.
func NewTransactionService(store storage.Store, publisher *events.Publisher) *TransactionService {
	return &TransactionService{store: store, publisher: publisher}
}

func (s *TransactionService) Create(ctx context.Context, actingUserID, accountID string, params TransactionParams) (*models.Transaction, error) {
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	state, err := s.store.GetMembership(ctx, account.HouseholdID, actingUserID)
	if err != nil {
		return nil, err
	}
	if err := decisionErr(policy.CreateTransaction(state)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, validationErr("title", "title is required")
	}

	category, err := s.store.GetCategory(ctx, params.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := ledger.CheckLink(account, category); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		BankAccountID: accountID,
		CategoryID:    params.CategoryID,
		CreatorID:     actingUserID,
		Title:         params.Title,
		Description:   params.Description,
		Amount:        params.Amount,
		TransactedAt:  params.TransactedAt,
	}
	if err := s.store.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "transaction created", "transaction_id", txn.ID, "account_id", accountID, "amount", txn.Amount)

	s.publish(ctx, events.ActionCreated, txn, actingUserID)
	return txn, nil
}

func (s *TransactionService) Edit(ctx context.Context, actingUserID, transactionID string, params TransactionParams) (*models.Transaction, error) {
	txn, account, err := s.authorizeModify(ctx, actingUserID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := ledger.CanEdit(txn); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, validationErr("title", "title is required")
	}

	category, err := s.store.GetCategory(ctx, params.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := ledger.CheckLink(account, category); err != nil {
		return nil, err
	}

	txn.CategoryID = params.CategoryID
	txn.Title = params.Title
	txn.Description = params.Description
	txn.Amount = params.Amount
	txn.TransactedAt = params.TransactedAt
	if err := s.store.UpdateTransaction(ctx, txn); err != nil {
		return nil, err
	}

	s.publish(ctx, events.ActionEdited, txn, actingUserID)
	return txn, nil
}

func (s *TransactionService) Delete(ctx context.Context, actingUserID, transactionID string) error {
	txn, _, err := s.authorizeModify(ctx, actingUserID, transactionID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteTransaction(ctx, transactionID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "transaction deleted", "transaction_id", transactionID)

	s.publish(ctx, events.ActionDeleted, txn, actingUserID)
	return nil
}

// Void marks a transaction as void exactly once. The entry stays in the
// ledger but no longer counts toward the account balance.
func (s *TransactionService) Void(ctx context.Context, actingUserID, transactionID string) (*models.Transaction, error) {
	txn, _, err := s.authorizeModify(ctx, actingUserID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := ledger.CanVoid(txn); err != nil {
		return nil, err
	}

	if err := s.store.VoidTransaction(ctx, transactionID); err != nil {
		return nil, err
	}
	txn.IsVoid = true
	slog.InfoContext(ctx, "transaction voided", "transaction_id", transactionID)

	s.publish(ctx, events.ActionVoided, txn, actingUserID)
	return txn, nil
}

func (s *TransactionService) ListByAccount(ctx context.Context, actingUserID, accountID string) ([]*models.Transaction, error) {
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	state, err := s.store.GetMembership(ctx, account.HouseholdID, actingUserID)
	if err != nil {
		return nil, err
	}
	if err := decisionErr(policy.ReadHouseholdData(state)); err != nil {
		return nil, err
	}
	return s.store.ListTransactionsByAccount(ctx, accountID)
}

// authorizeModify loads the transaction and checks that the acting user
// is its creator or the household owner.
func (s *TransactionService) authorizeModify(ctx context.Context, actingUserID, transactionID string) (*models.Transaction, *models.BankAccount, error) {
	txn, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}
	account, err := s.store.GetAccount(ctx, txn.BankAccountID)
	if err != nil {
		return nil, nil, err
	}
	household, err := s.store.GetHousehold(ctx, account.HouseholdID)
	if err != nil {
		return nil, nil, err
	}
	if err := decisionErr(policy.ModifyTransaction(txn.CreatorID, household.OwnerID, actingUserID)); err != nil {
		return nil, nil, err
	}
	return txn, account, nil
}

// publish emits a ledger event with the account balance after the
// change. Failures are logged and never surfaced to the caller.
func (s *TransactionService) publish(ctx context.Context, action string, txn *models.Transaction, actorID string) {
	if s.publisher == nil {
		return
	}
	balance := 0.0
	if account, err := s.store.GetAccount(ctx, txn.BankAccountID); err == nil {
		balance = account.Balance
	}
	ev := events.NewTransactionEvent(action, txn.ID, txn.BankAccountID, txn.Amount, balance, actorID)
	if err := s.publisher.PublishTransactionEvent(ctx, ev); err != nil {
		slog.WarnContext(ctx, "failed to publish transaction event", "transaction_id", txn.ID, "error", err)
	}
}
