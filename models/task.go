package models

import "gorm.io/gorm"

type Task struct {
	gorm.Model
	UserID    uint   `gorm:"not null;index"`
	Title     string `gorm:"size:200;not null"`
	Deadline  string `gorm:"size:40"`
	Completed bool   `gorm:"not null;default:false"`
}
