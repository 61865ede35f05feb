package routes

import (
	"lexiport/middleware"
	"lexiport/pkg/cache"
	"lexiport/pkg/config"
	"lexiport/pkg/hub"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authRoutes "lexiport/routes/auth"
	chatRoutes "lexiport/routes/chat"
	feedbackRoutes "lexiport/routes/feedback"
	messageRoutes "lexiport/routes/message"
	taskRoutes "lexiport/routes/task"
	userRoutes "lexiport/routes/user"
	websocketRoutes "lexiport/routes/websocket"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rooms *hub.Hub) {
	middleware.SetRateLimitConfig(
		time.Duration(config.RateLimitWindowSeconds)*time.Second,
		config.RateLimitCapacity,
		config.UserConcurrencyLimit,
	)
	cache.SetMaxItems(config.UserCacheMaxItems)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "learning portal api running"})
	})

	websocketRoutes.Register(r, db, rooms)
	authRoutes.RegisterPublic(r, db)
	feedbackRoutes.RegisterPublic(r, db)

	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware())
	authRoutes.RegisterProtected(protected, db)
	userRoutes.Register(protected, db)
	chatRoutes.Register(protected, db)
	messageRoutes.Register(protected, db)
	taskRoutes.Register(protected, db)
	feedbackRoutes.RegisterProtected(protected, db)
}
