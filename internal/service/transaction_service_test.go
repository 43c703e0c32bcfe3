package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgeter/internal/ledger"
	"budgeter/internal/models"
	"budgeter/internal/policy"
	"budgeter/internal/storage"
)

// ledgerFixture wires a household with one account and one category,
// plus an owner, a joined member and an outsider.
type ledgerFixture struct {
	store    storage.Store
	owner    *models.User
	member   *models.User
	stranger *models.User

	household *models.Household
	account   *models.BankAccount
	category  *models.Category

	transactions *TransactionService
	accounts     *AccountService
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	ctx := context.Background()
	store := newTestStore(t)

	f := &ledgerFixture{
		store:        store,
		owner:        createTestUser(t, store, "owner@example.com"),
		member:       createTestUser(t, store, "member@example.com"),
		stranger:     createTestUser(t, store, "stranger@example.com"),
		transactions: NewTransactionService(store, nil),
		accounts:     NewAccountService(store),
	}

	households := NewHouseholdService(store, nil, "http://localhost:8080")
	household, err := households.Create(ctx, f.owner.ID, "Maple Street", "")
	if err != nil {
		t.Fatalf("failed to create household: %v", err)
	}
	f.household = household

	if _, err := households.Invite(ctx, f.owner.ID, household.ID, f.member.Email); err != nil {
		t.Fatalf("failed to invite member: %v", err)
	}
	if _, err := households.Join(ctx, f.member.ID, household.ID); err != nil {
		t.Fatalf("failed to join: %v", err)
	}

	account, err := f.accounts.Create(ctx, f.owner.ID, household.ID, "Checking", "")
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
	f.account = account

	category, err := NewCategoryService(store).Create(ctx, f.owner.ID, household.ID, "Groceries", "")
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	f.category = category

	return f
}

func (f *ledgerFixture) params(amount float64) TransactionParams {
	return TransactionParams{
		CategoryID:   f.category.ID,
		Title:        "weekly shop",
		Amount:       amount,
		TransactedAt: time.Now().Unix(),
	}
}

func (f *ledgerFixture) balance(t *testing.T) float64 {
	t.Helper()
	account, err := f.store.GetAccount(context.Background(), f.account.ID)
	if err != nil {
		t.Fatalf("failed to read account: %v", err)
	}
	return account.Balance
}

func TestTransactionLifecycleBalances(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)

	txn, err := f.transactions.Create(ctx, f.member.ID, f.account.ID, f.params(100))
	if err != nil {
		t.Fatalf("failed to create transaction: %v", err)
	}
	if got := f.balance(t); got != 100 {
		t.Errorf("balance after create = %v, want 100", got)
	}

	edited := f.params(40)
	if _, err := f.transactions.Edit(ctx, f.member.ID, txn.ID, edited); err != nil {
		t.Fatalf("failed to edit transaction: %v", err)
	}
	if got := f.balance(t); got != 40 {
		t.Errorf("balance after edit = %v, want 40", got)
	}

	voided, err := f.transactions.Void(ctx, f.member.ID, txn.ID)
	if err != nil {
		t.Fatalf("failed to void transaction: %v", err)
	}
	if !voided.IsVoid {
		t.Error("voided transaction not marked void")
	}
	if got := f.balance(t); got != 0 {
		t.Errorf("balance after void = %v, want 0", got)
	}

	if err := f.transactions.Delete(ctx, f.member.ID, txn.ID); err != nil {
		t.Fatalf("failed to delete transaction: %v", err)
	}
	if got := f.balance(t); got != 0 {
		t.Errorf("balance after delete = %v, want 0", got)
	}
}

func TestVoidedTransactionIsFrozen(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)

	txn, err := f.transactions.Create(ctx, f.owner.ID, f.account.ID, f.params(25))
	if err != nil {
		t.Fatalf("failed to create transaction: %v", err)
	}
	if _, err := f.transactions.Void(ctx, f.owner.ID, txn.ID); err != nil {
		t.Fatalf("failed to void: %v", err)
	}

	if _, err := f.transactions.Void(ctx, f.owner.ID, txn.ID); !errors.Is(err, ledger.ErrAlreadyVoid) {
		t.Errorf("second void error = %v, want ErrAlreadyVoid", err)
	}
	if _, err := f.transactions.Edit(ctx, f.owner.ID, txn.ID, f.params(99)); !errors.Is(err, ledger.ErrEditVoided) {
		t.Errorf("edit voided error = %v, want ErrEditVoided", err)
	}
	if got := f.balance(t); got != 0 {
		t.Errorf("balance = %v, want 0 after rejected operations", got)
	}
}

func TestModifyRestrictedToCreatorOrOwner(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)

	// A second joined member who did not create the transaction.
	other := createTestUser(t, f.store, "other@example.com")
	households := NewHouseholdService(f.store, nil, "http://localhost:8080")
	if _, err := households.Invite(ctx, f.owner.ID, f.household.ID, other.Email); err != nil {
		t.Fatalf("failed to invite: %v", err)
	}
	if _, err := households.Join(ctx, other.ID, f.household.ID); err != nil {
		t.Fatalf("failed to join: %v", err)
	}

	txn, err := f.transactions.Create(ctx, f.member.ID, f.account.ID, f.params(10))
	if err != nil {
		t.Fatalf("failed to create transaction: %v", err)
	}

	if _, err := f.transactions.Edit(ctx, other.ID, txn.ID, f.params(5)); !errors.Is(err, policy.ErrForbidden) {
		t.Errorf("non-creator edit error = %v, want ErrForbidden", err)
	}
	if err := f.transactions.Delete(ctx, other.ID, txn.ID); !errors.Is(err, policy.ErrForbidden) {
		t.Errorf("non-creator delete error = %v, want ErrForbidden", err)
	}
	if _, err := f.transactions.Void(ctx, other.ID, txn.ID); !errors.Is(err, policy.ErrForbidden) {
		t.Errorf("non-creator void error = %v, want ErrForbidden", err)
	}

	// The owner may act on any member's transaction.
	if _, err := f.transactions.Void(ctx, f.owner.ID, txn.ID); err != nil {
		t.Errorf("owner void error = %v, want success", err)
	}
}

func TestCategoryFromAnotherHouseholdRejected(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)

	households := NewHouseholdService(f.store, nil, "http://localhost:8080")
	otherHousehold, err := households.Create(ctx, f.owner.ID, "Oak Avenue", "")
	if err != nil {
		t.Fatalf("failed to create second household: %v", err)
	}
	foreign, err := NewCategoryService(f.store).Create(ctx, f.owner.ID, otherHousehold.ID, "Rent", "")
	if err != nil {
		t.Fatalf("failed to create foreign category: %v", err)
	}

	params := f.params(50)
	params.CategoryID = foreign.ID
	if _, err := f.transactions.Create(ctx, f.owner.ID, f.account.ID, params); !errors.Is(err, ledger.ErrCategoryMismatch) {
		t.Errorf("cross-household create error = %v, want ErrCategoryMismatch", err)
	}
	if got := f.balance(t); got != 0 {
		t.Errorf("balance = %v, want 0 after rejected create", got)
	}

	// Retargeting an existing transaction is guarded the same way.
	txn, err := f.transactions.Create(ctx, f.owner.ID, f.account.ID, f.params(50))
	if err != nil {
		t.Fatalf("failed to create transaction: %v", err)
	}
	if _, err := f.transactions.Edit(ctx, f.owner.ID, txn.ID, params); !errors.Is(err, ledger.ErrCategoryMismatch) {
		t.Errorf("cross-household edit error = %v, want ErrCategoryMismatch", err)
	}
	if got := f.balance(t); got != 50 {
		t.Errorf("balance = %v, want 50 after rejected edit", got)
	}
}

func TestOutsiderCannotTouchLedger(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)

	if _, err := f.transactions.Create(ctx, f.stranger.ID, f.account.ID, f.params(10)); !errors.Is(err, policy.ErrForbidden) {
		t.Errorf("outsider create error = %v, want ErrForbidden", err)
	}
	if _, err := f.transactions.ListByAccount(ctx, f.stranger.ID, f.account.ID); !errors.Is(err, policy.ErrForbidden) {
		t.Errorf("outsider list error = %v, want ErrForbidden", err)
	}
}

func TestRecalculateBalanceMatchesLedger(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)

	for _, amount := range []float64{10, 20, -5} {
		if _, err := f.transactions.Create(ctx, f.owner.ID, f.account.ID, f.params(amount)); err != nil {
			t.Fatalf("failed to create transaction: %v", err)
		}
	}

	account, err := f.accounts.RecalculateBalance(ctx, f.owner.ID, f.account.ID)
	if err != nil {
		t.Fatalf("failed to recalculate: %v", err)
	}
	if account.Balance != 25 {
		t.Errorf("recalculated balance = %v, want 25", account.Balance)
	}

	if _, err := f.accounts.RecalculateBalance(ctx, f.member.ID, f.account.ID); !errors.Is(err, policy.ErrForbidden) {
		t.Errorf("member recalculate error = %v, want ErrForbidden", err)
	}
}
