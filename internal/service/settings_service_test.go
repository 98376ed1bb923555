package service

import (
	"context"
	"errors"
	"testing"

	"adminbase/internal/model"
)

func seedSettings(t *testing.T, env *testEnv) {
	t.Helper()
	rows := []model.AppSetting{
		{Key: "site_name", Value: "Example", ValueType: model.SettingTypeString, IsPublic: true},
		{Key: "signup_enabled", Value: "true", ValueType: model.SettingTypeBoolean, IsPublic: true},
		{Key: "smtp_relay", Value: "internal", ValueType: model.SettingTypeString, IsPublic: false},
	}
	for i := range rows {
		if err := env.db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("failed to seed setting %s: %v", rows[i].Key, err)
		}
	}
}

func TestGetPublicSettingsFiltersPrivateKeys(t *testing.T) {
	env := newTestEnv(t)
	seedSettings(t, env)

	values, err := env.config.GetPublic(context.Background())
	if err != nil {
		t.Fatalf("failed to fetch public settings: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("expected 2 public settings, got %d", len(values))
	}
	if values["site_name"] != "Example" {
		t.Fatalf("unexpected site_name: %q", values["site_name"])
	}
	if _, leaked := values["smtp_relay"]; leaked {
		t.Fatal("private setting leaked through the public read")
	}
}

func TestGetPublicSettingsCachesUntilInvalidated(t *testing.T) {
	env := newTestEnv(t)
	seedSettings(t, env)
	ctx := context.Background()

	if _, err := env.config.GetPublic(ctx); err != nil {
		t.Fatalf("priming read failed: %v", err)
	}

	// A store-level write bypassing the service is invisible while cached
	if err := env.settings.UpdateValue(ctx, "site_name", "Renamed"); err != nil {
		t.Fatalf("direct update failed: %v", err)
	}
	values, err := env.config.GetPublic(ctx)
	if err != nil {
		t.Fatalf("cached read failed: %v", err)
	}
	if values["site_name"] != "Example" {
		t.Fatalf("expected the cached value, got %q", values["site_name"])
	}

	env.config.Invalidate()
	values, err = env.config.GetPublic(ctx)
	if err != nil {
		t.Fatalf("refreshed read failed: %v", err)
	}
	if values["site_name"] != "Renamed" {
		t.Fatalf("expected the fresh value after invalidation, got %q", values["site_name"])
	}
}

func TestGetAllSettingsRequiresActiveAdmin(t *testing.T) {
	env := newTestEnv(t)
	seedSettings(t, env)
	admin := env.seedAdmin(t)
	user := env.seedAccount(t, "user@example.com", "pw123456", model.RoleUser, model.StatusActive)
	ctx := context.Background()

	if _, err := env.config.GetAll(ctx, adminID(t, user)); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	rows, err := env.config.GetAll(ctx, adminID(t, admin))
	if err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected all 3 settings for the admin, got %d", len(rows))
	}
}

func TestUpdateSettingsReportsPartialSuccess(t *testing.T) {
	env := newTestEnv(t)
	seedSettings(t, env)
	admin := env.seedAdmin(t)
	ctx := context.Background()

	res, err := env.config.Update(ctx, adminID(t, admin), map[string]string{
		"site_name":      "New Name",
		"signup_enabled": "false",
		"no_such_key":    "whatever",
	})
	if err != nil {
		t.Fatalf("bulk update failed: %v", err)
	}

	if len(res.Updated) != 2 {
		t.Fatalf("expected 2 updated keys, got %v", res.Updated)
	}
	if _, ok := res.Failed["no_such_key"]; !ok || len(res.Failed) != 1 {
		t.Fatalf("expected exactly no_such_key to fail, got %v", res.Failed)
	}

	// The known keys committed despite the unknown one
	row, err := env.settings.GetByKey(ctx, "site_name")
	if err != nil {
		t.Fatalf("failed to re-read site_name: %v", err)
	}
	if row.Value != "New Name" {
		t.Fatalf("site_name not committed, got %q", row.Value)
	}

	// Unknown keys must not be created
	if n := count[model.AppSetting](t, env.db, "key = ?", "no_such_key"); n != 0 {
		t.Fatal("update created a row for an unknown key")
	}

	// The public cache reflects the new values on the next read
	values, err := env.config.GetPublic(ctx)
	if err != nil {
		t.Fatalf("public read failed: %v", err)
	}
	if values["site_name"] != "New Name" {
		t.Fatalf("cache not invalidated, got %q", values["site_name"])
	}

	if entries := env.auditEntries(t, model.ActionSettingsUpdated); len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
}

func TestUpdateSettingsAllUnknownKeysSkipsAudit(t *testing.T) {
	env := newTestEnv(t)
	seedSettings(t, env)
	admin := env.seedAdmin(t)

	res, err := env.config.Update(context.Background(), adminID(t, admin), map[string]string{
		"missing_one": "a",
		"missing_two": "b",
	})
	if err != nil {
		t.Fatalf("bulk update failed: %v", err)
	}
	if len(res.Updated) != 0 || len(res.Failed) != 2 {
		t.Fatalf("expected everything to fail, got updated=%v failed=%v", res.Updated, res.Failed)
	}

	if entries := env.auditEntries(t, model.ActionSettingsUpdated); len(entries) != 0 {
		t.Fatal("an update with no committed keys must not be audited")
	}
}

func TestUpdateSettingsRequiresActiveAdmin(t *testing.T) {
	env := newTestEnv(t)
	seedSettings(t, env)
	user := env.seedAccount(t, "user@example.com", "pw123456", model.RoleUser, model.StatusActive)

	if _, err := env.config.Update(context.Background(), adminID(t, user), map[string]string{
		"site_name": "Hijacked",
	}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	row, err := env.settings.GetByKey(context.Background(), "site_name")
	if err != nil {
		t.Fatalf("failed to re-read site_name: %v", err)
	}
	if row.Value != "Example" {
		t.Fatal("denied update must not change values")
	}
}
