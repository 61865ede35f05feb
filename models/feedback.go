package models

import "gorm.io/gorm"

type Feedback struct {
	gorm.Model
	UserID  *uint  `gorm:"index"`
	Name    string `gorm:"size:120"`
	Email   string `gorm:"size:120"`
	Message string `gorm:"type:text;not null"`
}
