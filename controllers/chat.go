package controllers

import (
	"lexiport/middleware"
	"lexiport/models"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func conversationPayload(conv *models.Conversation) gin.H {
	participants := make([]map[string]any, 0, len(conv.Participants))
	for i := range conv.Participants {
		participants = append(participants, conv.Participants[i].Public())
	}
	var last any
	if n := len(conv.Messages); n > 0 {
		last = messagePayload(&conv.Messages[n-1])
	}
	return gin.H{
		"id":           conv.ID,
		"isGroupChat":  conv.IsGroupChat,
		"groupName":    conv.GroupName,
		"createdBy":    conv.CreatedByID,
		"participants": participants,
		"lastMessage":  last,
		"createdAt":    conv.CreatedAt,
	}
}

// findDirectConversation returns an existing non-group conversation holding
// exactly this user pair, if any.
func findDirectConversation(db *gorm.DB, a, b uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := db.
		Joins("JOIN conversation_participants cp1 ON cp1.conversation_id = conversations.id AND cp1.user_id = ?", a).
		Joins("JOIN conversation_participants cp2 ON cp2.conversation_id = conversations.id AND cp2.user_id = ?", b).
		Where("conversations.is_group_chat = ?", false).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListChats returns every conversation the caller participates in, newest
// activity first, with participants and the last message summarized.
func ListChats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)

		var convs []models.Conversation
		err := db.
			Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id AND cp.user_id = ?", uid).
			Preload("Participants").
			Preload("Messages", func(tx *gorm.DB) *gorm.DB { return tx.Order("messages.id") }).
			Find(&convs).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		// newest activity first; conversations without messages sort by creation
		sort.SliceStable(convs, func(i, j int) bool {
			return lastActivity(&convs[j]).Before(lastActivity(&convs[i]))
		})

		result := make([]gin.H, 0, len(convs))
		for i := range convs {
			result = append(result, conversationPayload(&convs[i]))
		}
		c.JSON(http.StatusOK, result)
	}
}

func lastActivity(conv *models.Conversation) time.Time {
	if n := len(conv.Messages); n > 0 {
		return conv.Messages[n-1].CreatedAt
	}
	return conv.CreatedAt
}

// CreateChat creates a direct contact link or a named group.
// Direct pairs are unique: creating one that already exists returns the
// existing conversation instead of a duplicate.
func CreateChat(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)

		var body struct {
			IsGroupChat bool   `json:"isGroupChat"`
			GroupName   string `json:"groupName"`
			OtherUser   uint   `json:"otherUser"`
			Members     []uint `json:"members"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
			return
		}

		if !body.IsGroupChat {
			if body.OtherUser == 0 || body.OtherUser == uid {
				c.JSON(http.StatusBadRequest, gin.H{"message": "otherUser is required"})
				return
			}
			var other models.User
			if err := db.First(&other, body.OtherUser).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
				return
			}

			if existing, err := findDirectConversation(db, uid, other.ID); err == nil {
				reloadConversation(db, existing)
				c.JSON(http.StatusOK, conversationPayload(existing))
				return
			} else if err != gorm.ErrRecordNotFound {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
				return
			}

			var me models.User
			if err := db.First(&me, uid).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
				return
			}
			conv := models.Conversation{
				IsGroupChat:  false,
				CreatedByID:  uid,
				Participants: []models.User{me, other},
			}
			if err := db.Create(&conv).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create conversation"})
				return
			}
			c.JSON(http.StatusCreated, conversationPayload(&conv))
			return
		}

		// group chat
		name := strings.TrimSpace(body.GroupName)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Group name is required"})
			return
		}
		if len(body.Members) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "At least one member is required"})
			return
		}

		// creator is an implicit participant
		ids := map[uint]struct{}{uid: {}}
		for _, id := range body.Members {
			if id != 0 {
				ids[id] = struct{}{}
			}
		}
		memberIDs := make([]uint, 0, len(ids))
		for id := range ids {
			memberIDs = append(memberIDs, id)
		}

		var members []models.User
		if err := db.Where("id IN ?", memberIDs).Find(&members).Error; err != nil || len(members) != len(memberIDs) {
			c.JSON(http.StatusNotFound, gin.H{"message": "one or more members not found"})
			return
		}

		conv := models.Conversation{
			IsGroupChat:  true,
			GroupName:    name,
			CreatedByID:  uid,
			Participants: members,
		}
		if err := db.Create(&conv).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create group"})
			return
		}
		c.JSON(http.StatusCreated, conversationPayload(&conv))
	}
}

// AddMember adds a user to an existing group conversation.
func AddMember(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)
		cid, _ := strconv.Atoi(c.Param("conversationId"))

		var body struct {
			NewUser uint `json:"newUser"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.NewUser == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "newUser is required"})
			return
		}

		var conv models.Conversation
		if err := db.Preload("Participants").First(&conv, cid).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "conversation not found"})
			return
		}
		if !conv.HasParticipant(uid) {
			c.JSON(http.StatusForbidden, gin.H{"message": "not a participant of this conversation"})
			return
		}
		if !conv.IsGroupChat {
			c.JSON(http.StatusBadRequest, gin.H{"message": "cannot add members to a direct conversation"})
			return
		}
		if conv.HasParticipant(body.NewUser) {
			c.JSON(http.StatusConflict, gin.H{"message": "user is already a member"})
			return
		}

		var user models.User
		if err := db.First(&user, body.NewUser).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		if err := db.Model(&conv).Association("Participants").Append(&user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to add member"})
			return
		}

		reloadConversation(db, &conv)
		c.JSON(http.StatusOK, conversationPayload(&conv))
	}
}

func reloadConversation(db *gorm.DB, conv *models.Conversation) {
	_ = db.
		Preload("Participants").
		Preload("Messages", func(tx *gorm.DB) *gorm.DB { return tx.Order("messages.id") }).
		First(conv, conv.ID).Error
}
