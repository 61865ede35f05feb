package feedback

import (
	"lexiport/controllers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterPublic allows feedback without a session.
func RegisterPublic(r *gin.Engine, db *gorm.DB) {
	r.POST("/feedback/", controllers.SubmitFeedback(db))
}

// RegisterProtected adds the admin listing.
func RegisterProtected(g *gin.RouterGroup, db *gorm.DB) {
	g.GET("/feedback/", controllers.ListFeedback(db))
}
