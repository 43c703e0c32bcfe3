package service

import (
	"context"
	"log/slog"
	"strings"

	"budgeter/internal/models"
	"budgeter/internal/policy"
	"budgeter/internal/storage"
)

// AccountService manages bank accounts. Mutations are owner-only; any
// joined member may read.
type AccountService struct {
	store storage.Store
}

func NewAccountService(store storage.Store) *AccountService {
	return &AccountService{store: store}
}

func (s *AccountService) Create(ctx context.Context, actingUserID, householdID, name, description string) (*models.BankAccount, error) {
	household, err := s.store.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if err := decisionErr(policy.ManageHouseholdResource(household.OwnerID, actingUserID)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, validationErr("name", "name is required")
	}

	account := &models.BankAccount{
		HouseholdID: householdID,
		Name:        name,
		Description: description,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "bank account created", "account_id", account.ID, "household_id", householdID)
	return account, nil
}

func (s *AccountService) Edit(ctx context.Context, actingUserID, accountID, name, description string) (*models.BankAccount, error) {
	account, household, err := s.accountWithHousehold(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := decisionErr(policy.ManageHouseholdResource(household.OwnerID, actingUserID)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, validationErr("name", "name is required")
	}

	account.Name = name
	account.Description = description
	if err := s.store.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) Delete(ctx context.Context, actingUserID, accountID string) error {
	_, household, err := s.accountWithHousehold(ctx, accountID)
	if err != nil {
		return err
	}
	if err := decisionErr(policy.ManageHouseholdResource(household.OwnerID, actingUserID)); err != nil {
		return err
	}
	return s.store.DeleteAccount(ctx, accountID)
}

func (s *AccountService) List(ctx context.Context, actingUserID, householdID string) ([]*models.BankAccount, error) {
	if _, err := s.store.GetHousehold(ctx, householdID); err != nil {
		return nil, err
	}
	state, err := s.store.GetMembership(ctx, householdID, actingUserID)
	if err != nil {
		return nil, err
	}
	if err := decisionErr(policy.ReadHouseholdData(state)); err != nil {
		return nil, err
	}
	return s.store.ListAccountsByHousehold(ctx, householdID)
}

// RecalculateBalance resums the account balance from its non-void
// transactions and returns the refreshed account.
func (s *AccountService) RecalculateBalance(ctx context.Context, actingUserID, accountID string) (*models.BankAccount, error) {
	_, household, err := s.accountWithHousehold(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := decisionErr(policy.ManageHouseholdResource(household.OwnerID, actingUserID)); err != nil {
		return nil, err
	}

	account, err := s.store.RecalculateBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "balance recalculated", "account_id", accountID, "balance", account.Balance)
	return account, nil
}

func (s *AccountService) accountWithHousehold(ctx context.Context, accountID string) (*models.BankAccount, *models.Household, error) {
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	household, err := s.store.GetHousehold(ctx, account.HouseholdID)
	if err != nil {
		return nil, nil, err
	}
	return account, household, nil
}
