package models

import "gorm.io/gorm"

type Conversation struct {
	gorm.Model
	IsGroupChat  bool   `gorm:"not null;default:false;index"`
	GroupName    string `gorm:"size:200"`
	CreatedByID  uint   `gorm:"not null;index"`
	Participants []User `gorm:"many2many:conversation_participants"`
	Messages     []Message `gorm:"constraint:OnDelete:CASCADE"`
}

// HasParticipant reports membership against the preloaded participant list.
func (c *Conversation) HasParticipant(userID uint) bool {
	for _, p := range c.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}
