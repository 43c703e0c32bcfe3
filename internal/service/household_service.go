package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"budgeter/internal/membership"
	"budgeter/internal/models"
	"budgeter/internal/policy"
	"budgeter/internal/storage"
)

// HouseholdService manages households and their membership lifecycle.
type HouseholdService struct {
	store       storage.Store
	notifier    Notifier
	joinBaseURL string
}

// NewHouseholdService creates a household service. notifier may be nil,
// in which case invitations are recorded without sending mail.
func NewHouseholdService(store storage.Store, notifier Notifier, joinBaseURL string) *HouseholdService {
	return &HouseholdService{
		store:       store,
		notifier:    notifier,
		joinBaseURL: joinBaseURL,
	}
}

func (s *HouseholdService) Create(ctx context.Context, actingUserID, name, description string) (*models.Household, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationErr("name", "name is required")
	}

	household := &models.Household{
		Name:        name,
		Description: description,
		OwnerID:     actingUserID,
	}
	if err := s.store.CreateHousehold(ctx, household); err != nil {
		return nil, fmt.Errorf("failed to create household: %w", err)
	}

	slog.InfoContext(ctx, "household created", "household_id", household.ID, "owner_id", actingUserID)
	return household, nil
}

func (s *HouseholdService) Edit(ctx context.Context, actingUserID, householdID, name, description string) (*models.Household, error) {
	household, err := s.store.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if err := decisionErr(policy.ManageHousehold(household.OwnerID, actingUserID)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, validationErr("name", "name is required")
	}

	household.Name = name
	household.Description = description
	if err := s.store.UpdateHousehold(ctx, household); err != nil {
		return nil, err
	}
	return household, nil
}

func (s *HouseholdService) Delete(ctx context.Context, actingUserID, householdID string) error {
	household, err := s.store.GetHousehold(ctx, householdID)
	if err != nil {
		return err
	}
	if err := decisionErr(policy.ManageHousehold(household.OwnerID, actingUserID)); err != nil {
		return err
	}

	if err := s.store.DeleteHousehold(ctx, householdID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "household deleted", "household_id", householdID)
	return nil
}

// Get returns a household owned by the acting user. Households the user
// does not own are reported as not found.
func (s *HouseholdService) Get(ctx context.Context, actingUserID, householdID string) (*models.Household, error) {
	household, err := s.store.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if household.OwnerID != actingUserID {
		return nil, storage.ErrNotFound
	}
	return household, nil
}

func (s *HouseholdService) ListMine(ctx context.Context, actingUserID string) ([]*models.Household, error) {
	return s.store.ListHouseholdsByUser(ctx, actingUserID)
}

func (s *HouseholdService) ListInvited(ctx context.Context, actingUserID string) ([]*models.Household, error) {
	return s.store.ListInvitedHouseholds(ctx, actingUserID)
}

func (s *HouseholdService) ListMembers(ctx context.Context, actingUserID, householdID string) ([]*models.Member, error) {
	household, err := s.store.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if err := decisionErr(policy.ManageHousehold(household.OwnerID, actingUserID)); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, householdID)
}

// Invite moves a user into the invited state and sends them a join link.
// Only the owner may invite, and the invitee must be a registered user.
func (s *HouseholdService) Invite(ctx context.Context, actingUserID, householdID, email string) (*models.Member, error) {
	household, err := s.store.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if err := decisionErr(policy.ManageHousehold(household.OwnerID, actingUserID)); err != nil {
		return nil, err
	}

	invitee, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invitee: %w", err)
	}
	if invitee == nil {
		return nil, validationErr("email", "no user registered with this email")
	}

	state, err := s.store.GetMembership(ctx, householdID, invitee.ID)
	if err != nil {
		return nil, err
	}
	if err := membership.CanInvite(state); err != nil {
		return nil, err
	}

	if err := s.store.InviteUser(ctx, householdID, invitee.ID); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user invited", "household_id", householdID, "user_id", invitee.ID)

	if s.notifier != nil {
		joinLink := fmt.Sprintf("%s/households/%s/join", s.joinBaseURL, householdID)
		if err := s.notifier.SendInvitation(email, household.Name, joinLink); err != nil {
			slog.WarnContext(ctx, "failed to send invitation mail", "household_id", householdID, "error", err)
		}
	}

	return &models.Member{
		ID:          invitee.ID,
		Email:       invitee.Email,
		DisplayName: invitee.DisplayName,
	}, nil
}

// Join accepts a pending invitation and returns the member list as seen
// by the new member.
func (s *HouseholdService) Join(ctx context.Context, actingUserID, householdID string) ([]*models.Member, error) {
	if _, err := s.store.GetHousehold(ctx, householdID); err != nil {
		return nil, err
	}

	state, err := s.store.GetMembership(ctx, householdID, actingUserID)
	if err != nil {
		return nil, err
	}
	if err := membership.CanJoin(state); err != nil {
		return nil, err
	}

	if err := s.store.JoinHousehold(ctx, householdID, actingUserID); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user joined household", "household_id", householdID, "user_id", actingUserID)

	return s.store.ListMembers(ctx, householdID)
}

// Leave removes the acting user from a household. Owners cannot leave
// their own household.
func (s *HouseholdService) Leave(ctx context.Context, actingUserID, householdID string) error {
	if _, err := s.store.GetHousehold(ctx, householdID); err != nil {
		return err
	}

	state, err := s.store.GetMembership(ctx, householdID, actingUserID)
	if err != nil {
		return err
	}
	if err := membership.CanLeave(state); err != nil {
		return policy.ErrForbidden
	}

	// A concurrent leave surfaces from the store as ErrNotJoined; report it
	// the same way the pre-check would have.
	if err := s.store.LeaveHousehold(ctx, householdID, actingUserID); err != nil {
		if errors.Is(err, membership.ErrNotJoined) {
			return policy.ErrForbidden
		}
		return err
	}
	slog.InfoContext(ctx, "user left household", "household_id", householdID, "user_id", actingUserID)
	return nil
}
