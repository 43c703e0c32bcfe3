package service

import (
	"context"
	"log/slog"
	"strings"

	"budgeter/internal/models"
	"budgeter/internal/policy"
	"budgeter/internal/storage"
)

// CategoryService manages transaction categories. Mutations are
// owner-only; any joined member may read.
type CategoryService struct {
	store storage.Store
}

func NewCategoryService(store storage.Store) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) Create(ctx context.Context, actingUserID, householdID, name, description string) (*models.Category, error) {
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

	category := &models.Category{
		HouseholdID: householdID,
		Name:        name,
		Description: description,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "category created", "category_id", category.ID, "household_id", householdID)
	return category, nil
}

func (s *CategoryService) Edit(ctx context.Context, actingUserID, categoryID, name, description string) (*models.Category, error) {
	category, household, err := s.categoryWithHousehold(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if err := decisionErr(policy.ManageHouseholdResource(household.OwnerID, actingUserID)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, validationErr("name", "name is required")
	}

	category.Name = name
	category.Description = description
	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category and its transactions. Balances of accounts
// that held those transactions are recomputed by the store.
func (s *CategoryService) Delete(ctx context.Context, actingUserID, categoryID string) error {
	_, household, err := s.categoryWithHousehold(ctx, categoryID)
	if err != nil {
		return err
	}
	if err := decisionErr(policy.ManageHouseholdResource(household.OwnerID, actingUserID)); err != nil {
		return err
	}

	if err := s.store.DeleteCategory(ctx, categoryID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "category deleted", "category_id", categoryID)
	return nil
}

// Get returns a single category, readable by any joined member.
func (s *CategoryService) Get(ctx context.Context, actingUserID, categoryID string) (*models.Category, error) {
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	state, err := s.store.GetMembership(ctx, category.HouseholdID, actingUserID)
	if err != nil {
		return nil, err
	}
	if err := decisionErr(policy.ReadHouseholdData(state)); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, actingUserID, householdID string) ([]*models.Category, error) {
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
	return s.store.ListCategoriesByHousehold(ctx, householdID)
}

func (s *CategoryService) categoryWithHousehold(ctx context.Context, categoryID string) (*models.Category, *models.Household, error) {
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, nil, err
	}
	household, err := s.store.GetHousehold(ctx, category.HouseholdID)
	if err != nil {
		return nil, nil, err
	}
	return category, household, nil
}
