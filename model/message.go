package model

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

type Message struct {
	ID        UUID      `gorm:"primaryKey" json:"id"`
	SessionID UUID      `gorm:"not null;index:idx_messages_session_id_created_at" json:"session_id"`
	Session   *Session  `gorm:"foreignKey:SessionID;references:ID" json:"-"`
	Role      Role      `gorm:"type:varchar(16);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;precision:6;index:idx_messages_session_id_created_at" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID.IsZero() {
		m.ID = NewUUID()
	}
	return nil
}

// Turn is the role/content pair of a message, as written by the chat
// flow and read by the prompt assembler.
type Turn struct {
	Role    Role
	Content string
}

func (m Message) Turn() Turn {
	return Turn{Role: m.Role, Content: m.Content}
}

func Turns(messages []Message) []Turn {
	turns := make([]Turn, len(messages))
	for i, m := range messages {
		turns[i] = m.Turn()
	}
	return turns
}
