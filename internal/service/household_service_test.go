package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"budgeter/internal/membership"
	"budgeter/internal/models"
	"budgeter/internal/policy"
	"budgeter/internal/storage"
	"budgeter/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestUser(t *testing.T, store storage.Store, email string) *models.User {
	t.Helper()
	user := models.NewUser(email, email, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

// fakeNotifier records invitation mails instead of sending them.
type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) SendInvitation(to, householdName, joinLink string) error {
	f.sent = append(f.sent, to)
	return f.err
}

func TestInviteJoinLeaveLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	owner := createTestUser(t, store, "owner@example.com")
	guest := createTestUser(t, store, "guest@example.com")

	notifier := &fakeNotifier{}
	svc := NewHouseholdService(store, notifier, "http://localhost:8080")

	household, err := svc.Create(ctx, owner.ID, "Maple Street", "")
	if err != nil {
		t.Fatalf("failed to create household: %v", err)
	}

	member, err := svc.Invite(ctx, owner.ID, household.ID, guest.Email)
	if err != nil {
		t.Fatalf("failed to invite: %v", err)
	}
	if member.ID != guest.ID {
		t.Errorf("invited member = %s, want %s", member.ID, guest.ID)
	}
	if len(notifier.sent) != 1 || notifier.sent[0] != guest.Email {
		t.Errorf("notifier sent = %v, want [%s]", notifier.sent, guest.Email)
	}

	invited, err := svc.ListInvited(ctx, guest.ID)
	if err != nil {
		t.Fatalf("failed to list invited: %v", err)
	}
	if len(invited) != 1 || invited[0].ID != household.ID {
		t.Errorf("invited households = %v, want the new household", invited)
	}

	members, err := svc.Join(ctx, guest.ID, household.ID)
	if err != nil {
		t.Fatalf("failed to join: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("got %d members after join, want 2", len(members))
	}

	if err := svc.Leave(ctx, guest.ID, household.ID); err != nil {
		t.Fatalf("failed to leave: %v", err)
	}
	members, err = svc.ListMembers(ctx, owner.ID, household.ID)
	if err != nil {
		t.Fatalf("failed to list members: %v", err)
	}
	if len(members) != 1 || !members[0].IsOwner {
		t.Errorf("got members %v after leave, want only the owner", members)
	}
}

func TestInviteStateConflicts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	owner := createTestUser(t, store, "owner@example.com")
	guest := createTestUser(t, store, "guest@example.com")
	svc := NewHouseholdService(store, nil, "http://localhost:8080")

	household, err := svc.Create(ctx, owner.ID, "Maple Street", "")
	if err != nil {
		t.Fatalf("failed to create household: %v", err)
	}

	if _, err := svc.Invite(ctx, owner.ID, household.ID, guest.Email); err != nil {
		t.Fatalf("failed to invite: %v", err)
	}
	if _, err := svc.Invite(ctx, owner.ID, household.ID, guest.Email); !errors.Is(err, membership.ErrAlreadyInvited) {
		t.Errorf("second invite error = %v, want ErrAlreadyInvited", err)
	}

	if _, err := svc.Join(ctx, guest.ID, household.ID); err != nil {
		t.Fatalf("failed to join: %v", err)
	}
	if _, err := svc.Invite(ctx, owner.ID, household.ID, guest.Email); !errors.Is(err, membership.ErrAlreadyJoined) {
		t.Errorf("invite after join error = %v, want ErrAlreadyJoined", err)
	}
	if _, err := svc.Join(ctx, guest.ID, household.ID); !errors.Is(err, membership.ErrAlreadyJoined) {
		t.Errorf("second join error = %v, want ErrAlreadyJoined", err)
	}
}

func TestJoinWithoutInvitation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	owner := createTestUser(t, store, "owner@example.com")
	stranger := createTestUser(t, store, "stranger@example.com")
	svc := NewHouseholdService(store, nil, "http://localhost:8080")

	household, err := svc.Create(ctx, owner.ID, "Maple Street", "")
	if err != nil {
		t.Fatalf("failed to create household: %v", err)
	}

	if _, err := svc.Join(ctx, stranger.ID, household.ID); !errors.Is(err, membership.ErrNotInvited) {
		t.Errorf("uninvited join error = %v, want ErrNotInvited", err)
	}
	// The owner is already in the household and holds no invitation.
	if _, err := svc.Join(ctx, owner.ID, household.ID); !errors.Is(err, membership.ErrNotInvited) {
		t.Errorf("owner join error = %v, want ErrNotInvited", err)
	}
}

func TestLeaveRequiresJoinedState(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	owner := createTestUser(t, store, "owner@example.com")
	stranger := createTestUser(t, store, "stranger@example.com")
	invited := createTestUser(t, store, "invited@example.com")
	svc := NewHouseholdService(store, nil, "http://localhost:8080")

	household, err := svc.Create(ctx, owner.ID, "Maple Street", "")
	if err != nil {
		t.Fatalf("failed to create household: %v", err)
	}
	if _, err := svc.Invite(ctx, owner.ID, household.ID, invited.Email); err != nil {
		t.Fatalf("failed to invite: %v", err)
	}

	// Every non-joined state is denied the same way, owner included.
	for name, userID := range map[string]string{
		"owner":    owner.ID,
		"stranger": stranger.ID,
		"invited":  invited.ID,
	} {
		if err := svc.Leave(ctx, userID, household.ID); !errors.Is(err, policy.ErrForbidden) {
			t.Errorf("%s leave error = %v, want ErrForbidden", name, err)
		}
	}
}

func TestInviteRequiresRegisteredUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	owner := createTestUser(t, store, "owner@example.com")
	svc := NewHouseholdService(store, nil, "http://localhost:8080")

	household, err := svc.Create(ctx, owner.ID, "Maple Street", "")
	if err != nil {
		t.Fatalf("failed to create household: %v", err)
	}

	_, err = svc.Invite(ctx, owner.ID, household.ID, "nobody@example.com")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("invite unknown email error = %v, want ValidationError", err)
	}
	if vErr.Field != "email" {
		t.Errorf("validation field = %s, want email", vErr.Field)
	}
}

func TestMemberManagementIsOwnerOnly(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	owner := createTestUser(t, store, "owner@example.com")
	guest := createTestUser(t, store, "guest@example.com")
	third := createTestUser(t, store, "third@example.com")
	svc := NewHouseholdService(store, nil, "http://localhost:8080")

	household, err := svc.Create(ctx, owner.ID, "Maple Street", "")
	if err != nil {
		t.Fatalf("failed to create household: %v", err)
	}
	if _, err := svc.Invite(ctx, owner.ID, household.ID, guest.Email); err != nil {
		t.Fatalf("failed to invite: %v", err)
	}
	if _, err := svc.Join(ctx, guest.ID, household.ID); err != nil {
		t.Fatalf("failed to join: %v", err)
	}

	// Get only answers for households the caller owns.
	if _, err := svc.Get(ctx, guest.ID, household.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("member Get error = %v, want ErrNotFound", err)
	}
	// A joined member can see the household exists but may not manage it.
	if _, err := svc.ListMembers(ctx, guest.ID, household.ID); !errors.Is(err, policy.ErrForbidden) {
		t.Errorf("member ListMembers error = %v, want ErrForbidden", err)
	}
	if _, err := svc.Invite(ctx, guest.ID, household.ID, third.Email); !errors.Is(err, policy.ErrForbidden) {
		t.Errorf("member invite error = %v, want ErrForbidden", err)
	}
	// Outsiders are denied the same way, not hidden behind not-found.
	if _, err := svc.ListMembers(ctx, third.ID, household.ID); !errors.Is(err, policy.ErrForbidden) {
		t.Errorf("outsider ListMembers error = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, third.ID, household.ID); !errors.Is(err, policy.ErrForbidden) {
		t.Errorf("outsider delete error = %v, want ErrForbidden", err)
	}
}

func TestNotifierFailureDoesNotBlockInvite(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	owner := createTestUser(t, store, "owner@example.com")
	guest := createTestUser(t, store, "guest@example.com")

	notifier := &fakeNotifier{err: errors.New("smtp down")}
	svc := NewHouseholdService(store, notifier, "http://localhost:8080")

	household, err := svc.Create(ctx, owner.ID, "Maple Street", "")
	if err != nil {
		t.Fatalf("failed to create household: %v", err)
	}

	if _, err := svc.Invite(ctx, owner.ID, household.ID, guest.Email); err != nil {
		t.Fatalf("invite failed on notifier error: %v", err)
	}
	if _, err := svc.Join(ctx, guest.ID, household.ID); err != nil {
		t.Errorf("join after failed mail: %v, want success", err)
	}
}
