package task

import (
	"lexiport/controllers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register registers per-user task CRUD (protected).
func Register(g *gin.RouterGroup, db *gorm.DB) {
	g.GET("/task/", controllers.ListTasks(db))
	g.POST("/task/", controllers.CreateTask(db))
	g.PUT("/task/:taskId", controllers.UpdateTask(db))
	g.DELETE("/task/:taskId", controllers.DeleteTask(db))
}
