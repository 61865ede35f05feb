package auth

import (
	"lexiport/controllers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterPublic registers public auth routes: /auth/register, /auth/login
func RegisterPublic(r *gin.Engine, db *gorm.DB) {
	g := r.Group("/auth")
	g.POST("/register", controllers.Register(db))
	g.POST("/login", controllers.Login(db))
}

// RegisterProtected registers protected auth routes (e.g. logout)
func RegisterProtected(g *gin.RouterGroup, db *gorm.DB) {
	g.POST("/auth/logout", controllers.Logout())
}
