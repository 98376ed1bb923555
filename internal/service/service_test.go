package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"adminbase/internal/database"
	"adminbase/internal/mailer"
	"adminbase/internal/model"
	"adminbase/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// setupTestDB opens an isolated in-memory database with the full schema.
// A single connection keeps every query on the same memory instance.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access underlying connection: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return db
}

// fakeSender records outgoing messages instead of delivering them. Setting
// failWith makes every Send fail.
type fakeSender struct {
	mu       sync.Mutex
	sent     []mailer.Message
	failWith error
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return "", f.failWith
	}
	f.sent = append(f.sent, msg)
	return "msg_test_id", nil
}

func (f *fakeSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeSender) lastSent() mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return mailer.Message{}
	}
	return f.sent[len(f.sent)-1]
}

// fakeFeed records broadcast events for assertions on the activity stream
type fakeFeed struct {
	mu     sync.Mutex
	events []any
}

func (f *fakeFeed) BroadcastJSON(v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, v)
}

func (f *fakeFeed) eventCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

// testEnv wires the full service stack onto one test database
type testEnv struct {
	db       *gorm.DB
	roles    repository.UserRoleRepository
	accounts repository.AccountRepository
	metadata repository.UserMetadataRepository
	settings repository.SettingRepository
	auditLog repository.AuditRepository
	tx       repository.TransactionManager

	sender *fakeSender
	feed   *fakeFeed

	authz       AuthzService
	audit       AuditService
	invitations InvitationService
	users       UserAdminService
	config      SettingsService
	auth        AuthService
	email       EmailService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	env := &testEnv{
		db:       db,
		roles:    repository.NewUserRoleRepository(db),
		accounts: repository.NewAccountRepository(db),
		metadata: repository.NewUserMetadataRepository(db),
		settings: repository.NewSettingRepository(db),
		auditLog: repository.NewAuditRepository(db),
		tx:       repository.NewTransactionManager(db),
		sender:   &fakeSender{},
		feed:     &fakeFeed{},
	}

	env.authz = NewAuthzService(env.roles)
	env.audit = NewAuditService(env.auditLog, env.authz, env.feed)
	env.invitations = NewInvitationService(
		env.roles, env.accounts, env.metadata, env.tx, env.authz, env.audit, env.sender,
		InvitationConfig{
			BaseURL:     "https://app.example.com",
			FromAddress: "no-reply@example.com",
			OrgName:     "Example Org",
		},
	)
	env.users = NewUserAdminService(env.roles, env.accounts, env.metadata, env.tx, env.authz, env.audit)
	env.config = NewSettingsService(env.settings, env.authz, env.audit)
	env.auth = NewAuthService(env.accounts, env.roles, env.metadata, env.tx, env.audit)
	env.email = NewEmailService(env.authz, env.audit, env.sender, "no-reply@example.com", "Example Org")

	return env
}

// seedAccount inserts an account with a bcrypt-hashed password and a role row
// in the given role and status, returning the role row.
func (env *testEnv) seedAccount(t *testing.T, email, password, role, status string) *model.UserRole {
	t.Helper()
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	account := &model.Account{Email: email, Password: string(hashed)}
	if err := env.accounts.Create(ctx, account); err != nil {
		t.Fatalf("failed to seed account %s: %v", email, err)
	}

	accountID := account.ID
	row := &model.UserRole{
		AccountID: &accountID,
		Email:     email,
		Role:      role,
		Status:    status,
	}
	if err := env.roles.Create(ctx, row); err != nil {
		t.Fatalf("failed to seed role for %s: %v", email, err)
	}

	if err := env.metadata.Create(ctx, &model.UserMetadata{AccountID: account.ID}); err != nil {
		t.Fatalf("failed to seed metadata for %s: %v", email, err)
	}

	return row
}

func (env *testEnv) seedAdmin(t *testing.T) *model.UserRole {
	t.Helper()
	return env.seedAccount(t, "admin@example.com", "admin-password", model.RoleAdmin, model.StatusActive)
}

// adminID returns the seeded admin's account id as the string the services expect
func adminID(t *testing.T, row *model.UserRole) string {
	t.Helper()
	if row.AccountID == nil {
		t.Fatal("seeded role has no linked account")
	}
	return row.AccountID.String()
}

// auditEntries returns all audit rows matching action, newest first
func (env *testEnv) auditEntries(t *testing.T, action string) []model.AdminAuditLog {
	t.Helper()
	var entries []model.AdminAuditLog
	if err := env.db.Where("action = ?", action).Order("created_at desc").Find(&entries).Error; err != nil {
		t.Fatalf("failed to query audit entries: %v", err)
	}
	return entries
}

func count[T any](t *testing.T, db *gorm.DB, where string, args ...any) int64 {
	t.Helper()
	var n int64
	var zero T
	q := db.Model(&zero)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}

var errSendFailed = errors.New("provider unavailable")
