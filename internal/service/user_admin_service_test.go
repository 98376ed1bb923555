package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"adminbase/internal/model"
)

func strPtr(s string) *string { return &s }

func TestListUsersRequiresActiveAdmin(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedAccount(t, "user@example.com", "pw123456", model.RoleUser, model.StatusActive)

	if _, _, err := env.users.List(context.Background(), adminID(t, user), 1, 20); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestListUsersReturnsAllRowsIncludingInvited(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)
	env.seedAccount(t, "user@example.com", "pw123456", model.RoleUser, model.StatusActive)
	invite(t, env, admin, "pending@example.com", model.RoleUser)

	rows, total, err := env.users.List(context.Background(), adminID(t, admin), 1, 20)
	if err != nil {
		t.Fatalf("failed to list users: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d (total %d)", len(rows), total)
	}

	statuses := map[string]string{}
	for _, r := range rows {
		statuses[r.Email] = r.Status
	}
	if statuses["pending@example.com"] != model.StatusInvited {
		t.Fatalf("expected pending row listed as invited, got %q", statuses["pending@example.com"])
	}
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)
	target := env.seedAccount(t, "user@example.com", "pw123456", model.RoleUser, model.StatusActive)
	ctx := context.Background()

	res, err := env.users.Get(ctx, adminID(t, admin), target.ID.String())
	if err != nil {
		t.Fatalf("failed to get user: %v", err)
	}
	if res.Email != "user@example.com" {
		t.Fatalf("got wrong row: %s", res.Email)
	}

	if _, err := env.users.Get(ctx, adminID(t, admin), "00000000-0000-0000-0000-000000000000"); err == nil {
		t.Fatal("expected a not-found error")
	}
}

func TestUpdateUserAppliesDiffAndAudits(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)
	target := env.seedAccount(t, "user@example.com", "pw123456", model.RoleUser, model.StatusActive)
	ctx := context.Background()

	res, err := env.users.Update(ctx, adminID(t, admin), target.ID.String(), UpdateUserRequest{
		Role:   strPtr(model.RoleModerator),
		Status: strPtr(model.StatusSuspended),
		Notes:  strPtr("escalated twice"),
	})
	if err != nil {
		t.Fatalf("failed to update user: %v", err)
	}
	if res.Role != model.RoleModerator || res.Status != model.StatusSuspended {
		t.Fatalf("update not applied: %s/%s", res.Role, res.Status)
	}

	meta, err := env.metadata.GetByAccountID(ctx, target.AccountID.String())
	if err != nil {
		t.Fatalf("metadata missing: %v", err)
	}
	if meta.Notes != "escalated twice" {
		t.Fatalf("notes not stored, got %q", meta.Notes)
	}

	entries := env.auditEntries(t, model.ActionUserUpdated)
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	for _, field := range []string{"role", "status", "notes"} {
		if !strings.Contains(entries[0].Details, field) {
			t.Fatalf("audit diff missing %q: %s", field, entries[0].Details)
		}
	}
}

func TestUpdateUserNoopSkipsAudit(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)
	target := env.seedAccount(t, "user@example.com", "pw123456", model.RoleUser, model.StatusActive)

	if _, err := env.users.Update(context.Background(), adminID(t, admin), target.ID.String(), UpdateUserRequest{
		Role: strPtr(model.RoleUser),
	}); err != nil {
		t.Fatalf("no-op update failed: %v", err)
	}

	if entries := env.auditEntries(t, model.ActionUserUpdated); len(entries) != 0 {
		t.Fatal("a no-op update must not be audited")
	}
}

func TestUpdateUserRejectsInvalidValues(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)
	target := env.seedAccount(t, "user@example.com", "pw123456", model.RoleUser, model.StatusActive)
	ctx := context.Background()

	if _, err := env.users.Update(ctx, adminID(t, admin), target.ID.String(), UpdateUserRequest{
		Role: strPtr("root"),
	}); err == nil {
		t.Fatal("expected an invalid-role error")
	}
	if _, err := env.users.Update(ctx, adminID(t, admin), target.ID.String(), UpdateUserRequest{
		Status: strPtr("banished"),
	}); err == nil {
		t.Fatal("expected an invalid-status error")
	}
}

func TestDeleteLinkedUserCascades(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)
	target := env.seedAccount(t, "user@example.com", "user-password", model.RoleUser, model.StatusActive)
	ctx := context.Background()

	// An active session's refresh token must also be swept
	if _, err := env.auth.Login(ctx, LoginRequest{Email: "user@example.com", Password: "user-password"}); err != nil {
		t.Fatalf("seed login failed: %v", err)
	}
	accountID := target.AccountID.String()
	if n := count[model.RefreshToken](t, env.db, "account_id = ?", accountID); n != 1 {
		t.Fatalf("expected 1 refresh token before delete, got %d", n)
	}

	if err := env.users.Delete(ctx, adminID(t, admin), target.ID.String()); err != nil {
		t.Fatalf("failed to delete user: %v", err)
	}

	if n := count[model.UserRole](t, env.db, "email = ?", "user@example.com"); n != 0 {
		t.Fatal("role row survived the delete")
	}
	if n := count[model.Account](t, env.db, "id = ?", accountID); n != 0 {
		t.Fatal("account survived the delete")
	}
	if n := count[model.UserMetadata](t, env.db, "account_id = ?", accountID); n != 0 {
		t.Fatal("metadata survived the delete")
	}
	if n := count[model.RefreshToken](t, env.db, "account_id = ?", accountID); n != 0 {
		t.Fatal("refresh tokens survived the delete")
	}

	// The audit trail keeps referencing the removed account
	entries := env.auditEntries(t, model.ActionUserPermanentlyDeleted)
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	if entries[0].TargetID != accountID {
		t.Fatalf("audit target is %s, want %s", entries[0].TargetID, accountID)
	}
}

func TestDeleteInviteOnlyRow(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)
	res := invite(t, env, admin, "pending@example.com", model.RoleUser)
	ctx := context.Background()

	if err := env.users.Delete(ctx, adminID(t, admin), res.ID); err != nil {
		t.Fatalf("failed to delete invite-only row: %v", err)
	}

	if n := count[model.UserRole](t, env.db, "email = ?", "pending@example.com"); n != 0 {
		t.Fatal("invite-only row survived the delete")
	}
	if n := count[model.Account](t, env.db, ""); n != 1 {
		t.Fatalf("expected only the admin account to remain, got %d", n)
	}

	if entries := env.auditEntries(t, model.ActionUserRecordDeleted); len(entries) != 1 {
		t.Fatalf("expected 1 record-deleted audit entry, got %d", len(entries))
	}
}

func TestDeleteUserRequiresActiveAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t)
	target := env.seedAccount(t, "user@example.com", "pw123456", model.RoleUser, model.StatusActive)
	mod := env.seedAccount(t, "mod@example.com", "pw123456", model.RoleModerator, model.StatusActive)

	if err := env.users.Delete(context.Background(), adminID(t, mod), target.ID.String()); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if n := count[model.UserRole](t, env.db, "email = ?", "user@example.com"); n != 1 {
		t.Fatal("denied delete must not remove the row")
	}
}
