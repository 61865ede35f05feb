package websocket

import (
	"lexiport/controllers"
	"lexiport/pkg/hub"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Register(r *gin.Engine, db *gorm.DB, rooms *hub.Hub) {
	r.GET("/ws/chat", controllers.ChatWS(db, rooms))
}
