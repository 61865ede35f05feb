package controllers

import (
	"lexiport/middleware"
	"lexiport/models"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SubmitFeedback stores a feedback entry. Works with or without a session;
// an authenticated caller gets linked to the entry.
func SubmitFeedback(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Name    string `json:"name"`
			Email   string `json:"email"`
			Message string `json:"message"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Message) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "message is required"})
			return
		}

		fb := models.Feedback{
			Name:    strings.TrimSpace(body.Name),
			Email:   strings.TrimSpace(strings.ToLower(body.Email)),
			Message: strings.TrimSpace(body.Message),
		}
		// the route is public; a bearer token is honored when present
		if auth := c.GetHeader("Authorization"); auth != "" {
			parts := strings.Fields(auth)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				if uid, _, _, err := middleware.ParseToken(parts[1]); err == nil {
					fb.UserID = &uid
				}
			}
		}
		if err := db.Create(&fb).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to save feedback"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Thank you for your feedback!"})
	}
}

// ListFeedback is admin-only.
func ListFeedback(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)
		var me models.User
		if err := db.First(&me, uid).Error; err != nil || !me.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"message": "admin only"})
			return
		}

		var entries []models.Feedback
		if err := db.Order("id desc").Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		result := make([]gin.H, 0, len(entries))
		for _, e := range entries {
			result = append(result, gin.H{
				"id":        e.ID,
				"name":      e.Name,
				"email":     e.Email,
				"message":   e.Message,
				"createdAt": e.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, result)
	}
}
