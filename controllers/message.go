package controllers

import (
	"lexiport/middleware"
	"lexiport/models"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func messagePayload(m *models.Message) gin.H {
	var sender any = m.SenderID
	if m.Sender.ID != 0 {
		sender = m.Sender.Public()
	}
	return gin.H{
		"id":        m.ID,
		"chat":      m.ConversationID,
		"sender":    sender,
		"content":   m.Content,
		"createdAt": m.CreatedAt,
	}
}

// History returns a conversation's persisted messages in insertion order.
// The caller must participate; the server is the membership authority.
func History(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)
		cid, _ := strconv.Atoi(c.Param("conversationId"))

		var conv models.Conversation
		if err := db.Preload("Participants").First(&conv, cid).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "conversation not found"})
			return
		}
		if !conv.HasParticipant(uid) {
			c.JSON(http.StatusForbidden, gin.H{"message": "not a participant of this conversation"})
			return
		}

		var msgs []models.Message
		if err := db.Preload("Sender").
			Where("conversation_id = ?", conv.ID).
			Order("id").
			Find(&msgs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		result := make([]gin.H, 0, len(msgs))
		for i := range msgs {
			result = append(result, messagePayload(&msgs[i]))
		}
		c.JSON(http.StatusOK, result)
	}
}
