package chat

import (
	"lexiport/controllers"
	"lexiport/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register registers conversation-directory routes (protected).
func Register(g *gin.RouterGroup, db *gorm.DB) {
	g.GET("/chat/chats", controllers.ListChats(db))
	g.POST("/chat/create", middleware.RateLimit(), controllers.CreateChat(db))
	g.PUT("/chat/add/user/:conversationId", middleware.RateLimit(), controllers.AddMember(db))
}
