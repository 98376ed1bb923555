package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"adminbase/internal/model"
	"adminbase/internal/repository"
)

type AuditLogResponse struct {
	ID          string `json:"id"`
	ActorID     string `json:"actor_id"`
	ActorEmail  string `json:"actor_email"`
	Action      string `json:"action"`
	TargetID    string `json:"target_id"`
	TargetEmail string `json:"target_email"`
	Details     string `json:"details"`
	CreatedAt   string `json:"created_at"`
}

// AuditOptions carries the optional target reference and free-form detail
// payload for one audit entry
type AuditOptions struct {
	TargetID    string
	TargetEmail string
	Details     any // Marshaled to JSON; nil means no payload
}

// EventBroadcaster pushes admin activity events to connected consoles
type EventBroadcaster interface {
	BroadcastJSON(v any)
}

// AuditService appends privileged-action records and lists them for admins.
// Record is best-effort: the triggering operation never fails or rolls back
// because an audit write failed.
type AuditService interface {
	Record(ctx context.Context, actor *model.UserRole, action string, opts AuditOptions)
	List(ctx context.Context, adminID string, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo  repository.AuditRepository
	authz AuthzService
	feed  EventBroadcaster
}

// NewAuditService creates a new AuditService instance. feed may be nil.
func NewAuditService(repo repository.AuditRepository, authz AuthzService, feed EventBroadcaster) AuditService {
	return &auditService{repo: repo, authz: authz, feed: feed}
}

// Record appends one entry after a privileged mutation succeeded. Failures are
// reported to the operator console only.
func (s *auditService) Record(ctx context.Context, actor *model.UserRole, action string, opts AuditOptions) {
	entry := &model.AdminAuditLog{
		Action:      action,
		TargetID:    opts.TargetID,
		TargetEmail: opts.TargetEmail,
		CreatedAt:   time.Now(),
	}

	if actor != nil {
		if actor.AccountID != nil {
			id := *actor.AccountID
			entry.ActorID = &id
		}
		entry.ActorEmail = actor.Email
	}

	if opts.Details != nil {
		payload, err := json.Marshal(opts.Details)
		if err != nil {
			log.Printf("WARNING: failed to serialize audit details for %s: %v", action, err)
		} else {
			entry.Details = string(payload)
		}
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		log.Printf("WARNING: failed to record audit entry %s: %v", action, err)
		return
	}

	if s.feed != nil {
		s.feed.BroadcastJSON(map[string]any{
			"type":         "audit",
			"action":       entry.Action,
			"actor_email":  entry.ActorEmail,
			"target_id":    entry.TargetID,
			"target_email": entry.TargetEmail,
			"created_at":   entry.CreatedAt.Format(time.RFC3339),
		})
	}
}

// List retrieves strictly paginated records, newest first
func (s *auditService) List(ctx context.Context, adminID string, page, limit int) ([]AuditLogResponse, int64, error) {
	if _, err := s.authz.ActiveAdmin(ctx, adminID); err != nil {
		return nil, 0, err
	}

	entries, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		actorID := ""
		if e.ActorID != nil {
			actorID = e.ActorID.String()
		}
		res = append(res, AuditLogResponse{
			ID:          e.ID.String(),
			ActorID:     actorID,
			ActorEmail:  e.ActorEmail,
			Action:      e.Action,
			TargetID:    e.TargetID,
			TargetEmail: e.TargetEmail,
			Details:     e.Details,
			CreatedAt:   e.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
