package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;size:120;not null"`
	Username     string `gorm:"uniqueIndex;size:80;not null"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	AvatarURL    string `gorm:"size:500"`
	IsAdmin      bool   `gorm:"default:false"`
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// Public is the wire shape of a user; password hash never leaves the server.
func (u *User) Public() map[string]any {
	return map[string]any{
		"id":        u.ID,
		"username":  u.Username,
		"email":     u.Email,
		"avatarUrl": u.AvatarURL,
		"isAdmin":   u.IsAdmin,
	}
}
