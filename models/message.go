package models

import "gorm.io/gorm"

// Message is immutable once created; display order is insertion order.
type Message struct {
	gorm.Model
	ConversationID uint   `gorm:"index;not null"`
	SenderID       uint   `gorm:"index;not null"`
	Sender         User   `gorm:"foreignKey:SenderID"`
	Content        string `gorm:"type:text;not null"`
}
