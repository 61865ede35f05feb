package controllers

import (
	"lexiport/middleware"
	"lexiport/models"
	"lexiport/pkg/cache"
	"lexiport/pkg/config"
	utils "lexiport/pkg/utills"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListUsers returns the whole registered-user directory, self included.
// The contact/group pickers fetch this on every open, so the listing is
// cached briefly and invalidated on registration or profile change.
func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := cache.Default().Get(userDirectoryKey); ok {
			if payload, ok2 := v.([]map[string]any); ok2 {
				c.JSON(http.StatusOK, payload)
				return
			}
		}

		var users []models.User
		if err := db.Order("username").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		payload := make([]map[string]any, 0, len(users))
		for i := range users {
			payload = append(payload, users[i].Public())
		}
		cache.Default().Set(userDirectoryKey, payload, time.Duration(config.UserCacheTTLSeconds)*time.Second)
		c.JSON(http.StatusOK, payload)
	}
}

// Profile serves GET and PUT for the current user's own record.
func Profile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)

		var user models.User
		if err := db.First(&user, uid).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}

		if c.Request.Method == http.MethodGet {
			c.JSON(http.StatusOK, user.Public())
			return
		}

		// PUT
		var body struct {
			Email     string `json:"email"`
			Username  string `json:"username"`
			Password  string `json:"password"`
			AvatarURL string `json:"avatarUrl"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
			return
		}

		newEmail := strings.TrimSpace(strings.ToLower(body.Email))
		if newEmail == "" {
			newEmail = user.Email
		}
		newUsername := strings.TrimSpace(body.Username)
		if newUsername == "" {
			newUsername = user.Username
		}

		if newEmail != user.Email {
			var t models.User
			if err := db.Where("email = ?", newEmail).First(&t).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{"message": "Email already exists"})
				return
			}
		}
		if newUsername != user.Username {
			var t models.User
			if err := db.Where("username = ?", newUsername).First(&t).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{"message": "Username already exists"})
				return
			}
		}

		user.Email = newEmail
		user.Username = newUsername
		if body.AvatarURL != "" {
			user.AvatarURL = body.AvatarURL
		}
		if body.Password != "" {
			if !utils.ValidPassword(body.Password) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "New password must contain at least one letter and one number"})
				return
			}
			if err := user.SetPassword(body.Password); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to set password"})
				return
			}
		}
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update profile"})
			return
		}

		cache.Default().Delete(userDirectoryKey)
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
	}
}
