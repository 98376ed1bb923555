package service

import (
	"context"
	"errors"
	"testing"

	"adminbase/internal/model"

	"github.com/google/uuid"
)

func TestActiveAdminAllowsOnlyActiveAdmins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedAdmin(t)
	suspended := env.seedAccount(t, "frozen@example.com", "pw123456", model.RoleAdmin, model.StatusSuspended)
	moderator := env.seedAccount(t, "mod@example.com", "pw123456", model.RoleModerator, model.StatusActive)
	user := env.seedAccount(t, "user@example.com", "pw123456", model.RoleUser, model.StatusActive)

	cases := []struct {
		name      string
		accountID string
		allowed   bool
	}{
		{"active admin", adminID(t, admin), true},
		{"suspended admin", adminID(t, suspended), false},
		{"active moderator", adminID(t, moderator), false},
		{"active regular user", adminID(t, user), false},
		{"unknown account", uuid.NewString(), false},
		{"empty account id", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row, err := env.authz.ActiveAdmin(ctx, tc.accountID)
			if tc.allowed {
				if err != nil {
					t.Fatalf("expected access, got %v", err)
				}
				if row.Email != admin.Email {
					t.Fatalf("expected admin row, got %s", row.Email)
				}
			} else {
				if !errors.Is(err, ErrPermissionDenied) {
					t.Fatalf("expected ErrPermissionDenied, got %v", err)
				}
			}

			if got := env.authz.IsActiveAdmin(ctx, tc.accountID); got != tc.allowed {
				t.Fatalf("IsActiveAdmin = %v, want %v", got, tc.allowed)
			}
		})
	}
}

func TestActiveAdminRereadsRoleEveryCall(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedAdmin(t)
	id := adminID(t, admin)

	if _, err := env.authz.ActiveAdmin(ctx, id); err != nil {
		t.Fatalf("expected access before demotion, got %v", err)
	}

	// Demote directly in the store; the next check must see it immediately
	admin.Role = model.RoleUser
	if err := env.roles.Update(ctx, admin); err != nil {
		t.Fatalf("failed to demote admin: %v", err)
	}

	if _, err := env.authz.ActiveAdmin(ctx, id); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied after demotion, got %v", err)
	}
}
