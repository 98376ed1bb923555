package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Allowed role values
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// UserRole lifecycle states
const (
	StatusInvited   = "invited"
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusDeleted   = "deleted"
	StatusCancelled = "cancelled"
)

// UserRole represents one account's permission state, keyed by email.
// Exactly one row exists per email. While status is "invited" the row has no
// linked account yet; the invitation token plus expiry correlate it to the
// signup link. Once activated, AccountID is set and the invitation fields are
// historical.
type UserRole struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID       *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"account_id"`
	Account         *Account   `gorm:"foreignKey:AccountID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Email           string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role            string     `gorm:"type:varchar(50);not null" json:"role"`
	Status          string     `gorm:"type:varchar(50);not null;index" json:"status"`
	InvitationToken *string    `gorm:"type:varchar(64);uniqueIndex" json:"-"` // Opaque, unguessable; never serialized
	InvitedAt       *time.Time `json:"invited_at,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	InvitedBy       *uuid.UUID `gorm:"type:uuid" json:"invited_by,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *UserRole) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ValidRole reports whether role is one of the allowed values
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleModerator || role == RoleUser
}

// ValidStatus reports whether status is one of the lifecycle states
func ValidStatus(status string) bool {
	switch status {
	case StatusInvited, StatusActive, StatusSuspended, StatusDeleted, StatusCancelled:
		return true
	}
	return false
}
