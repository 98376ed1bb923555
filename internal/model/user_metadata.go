package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserMetadata holds auxiliary per-account profile data, owned 1:1 by the
// linked account. Created empty at activation, removed with the account.
type UserMetadata struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"account_id"`
	Account     Account   `gorm:"foreignKey:AccountID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	DisplayName string    `gorm:"type:varchar(255)" json:"display_name"`
	Notes       string    `gorm:"type:text" json:"notes"`
	Tags        string    `gorm:"type:varchar(255)" json:"tags"` // Comma separated labels
	Preferences string    `gorm:"type:jsonb" json:"preferences"` // Free-form JSON owned by the user
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *UserMetadata) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
