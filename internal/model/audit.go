package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionUserInvited            = "user_invited"
	ActionInvitationCancelled    = "invitation_cancelled"
	ActionUserUpdated            = "user_updated"
	ActionUserPermanentlyDeleted = "user_permanently_deleted"
	ActionUserRecordDeleted      = "user_record_deleted"
	ActionSettingsUpdated        = "settings_updated"
	ActionTestEmailSent          = "test_email_sent"
	ActionAdminBootstrapped      = "admin_bootstrapped"
)

// AdminAuditLog tracks Who, What, and When for each privileged mutation.
// Rows are never updated or deleted; target identifiers may reference
// accounts that no longer exist, history survives the subject.
type AdminAuditLog struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID     *uuid.UUID `gorm:"type:uuid;index" json:"actor_id"` // Nullable for system-initiated actions
	ActorEmail  string     `gorm:"type:varchar(255)" json:"actor_email"`
	Action      string     `gorm:"type:varchar(50);not null;index" json:"action"`
	TargetID    string     `gorm:"type:varchar(50);index" json:"target_id"` // Reference string, intentionally not a FK
	TargetEmail string     `gorm:"type:varchar(255)" json:"target_email,omitempty"`
	Details     string     `gorm:"type:jsonb" json:"details"` // Serialized JSON payload of the action
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}

func (e *AdminAuditLog) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
