package model

import (
	"time"

	"gorm.io/gorm"
)

// Session ties a user identifier to its messages.
type Session struct {
	ID        UUID      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_sessions_user_id" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;precision:6" json:"created_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID.IsZero() {
		s.ID = NewUUID()
	}
	return nil
}
