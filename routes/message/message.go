package message

import (
	"lexiport/controllers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register registers the message-history route (protected).
func Register(g *gin.RouterGroup, db *gorm.DB) {
	g.GET("/message/:conversationId", controllers.History(db))
}
