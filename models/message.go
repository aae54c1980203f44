package models

import (
	"time"

	"github.com/google/uuid"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

func (s Sender) Valid() bool { return s == SenderUser || s == SenderBot }

type Message struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Sender    Sender    `gorm:"size:8;default:user" json:"sender"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
