package user

import (
	"lexiport/controllers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register registers protected user routes; the bare /user/ listing feeds
// the contact and group pickers.
func Register(g *gin.RouterGroup, db *gorm.DB) {
	g.GET("/user/", controllers.ListUsers(db))
	g.GET("/user/profile", controllers.Profile(db))
	g.PUT("/user/profile", controllers.Profile(db))
}
