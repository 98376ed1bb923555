package service

import (
	"context"
	"sync"
	"time"

	"adminbase/internal/model"
	"adminbase/internal/repository"
)

// publicSettingsTTL bounds how stale the unauthenticated settings read may be
const publicSettingsTTL = 5 * time.Minute

// SettingsUpdateResult aggregates the outcome of one bulk update. Each key is
// an independent unit of work; one key's failure never blocks the others.
type SettingsUpdateResult struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed,omitempty"`
}

// SettingsService exposes key/value configuration. Public reads go through a
// read-through cache with explicit invalidation; admin reads and writes always
// hit the store.
type SettingsService interface {
	GetPublic(ctx context.Context) (map[string]string, error)
	GetAll(ctx context.Context, adminID string) ([]model.AppSetting, error)
	Update(ctx context.Context, adminID string, values map[string]string) (*SettingsUpdateResult, error)
	Invalidate()
}

type settingsService struct {
	repo  repository.SettingRepository
	authz AuthzService
	audit AuditService

	mu        sync.RWMutex
	cached    map[string]string
	expiresAt time.Time
}

// NewSettingsService returns a new instance of SettingsService
func NewSettingsService(repo repository.SettingRepository, authz AuthzService, audit AuditService) SettingsService {
	return &settingsService{repo: repo, authz: authz, audit: audit}
}

func (s *settingsService) GetPublic(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	if s.cached != nil && time.Now().Before(s.expiresAt) {
		cached := s.cached
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	rows, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}

	s.mu.Lock()
	s.cached = values
	s.expiresAt = time.Now().Add(publicSettingsTTL)
	s.mu.Unlock()

	return values, nil
}

func (s *settingsService) GetAll(ctx context.Context, adminID string) ([]model.AppSetting, error) {
	if _, err := s.authz.ActiveAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.repo.ListAll(ctx)
}

// Update dispatches the per-key writes concurrently and joins before
// responding. Partial success is expected and reported per key.
func (s *settingsService) Update(ctx context.Context, adminID string, values map[string]string) (*SettingsUpdateResult, error) {
	admin, err := s.authz.ActiveAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	type outcome struct {
		key string
		err error
	}

	results := make(chan outcome, len(values))
	var wg sync.WaitGroup
	for key, value := range values {
		wg.Add(1)
		go func(key, value string) {
			defer wg.Done()
			results <- outcome{key: key, err: s.repo.UpdateValue(ctx, key, value)}
		}(key, value)
	}
	wg.Wait()
	close(results)

	res := &SettingsUpdateResult{Updated: []string{}, Failed: map[string]string{}}
	for out := range results {
		if out.err != nil {
			res.Failed[out.key] = out.err.Error()
		} else {
			res.Updated = append(res.Updated, out.key)
		}
	}

	if len(res.Updated) > 0 {
		s.Invalidate()
		s.audit.Record(ctx, admin, model.ActionSettingsUpdated, AuditOptions{
			Details: res,
		})
	}

	return res, nil
}

// Invalidate drops the cached public view; the next read refreshes it
func (s *settingsService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}
