package main

import (
	"lexiport/models"
	"lexiport/pkg/config"
	"lexiport/pkg/hub"
	"lexiport/routes"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openDatabase() (*gorm.DB, error) {
	dsn := config.DatabaseDSN
	// mysql DSNs carry a tcp(...) or @ segment; everything else is a sqlite file
	if strings.Contains(dsn, "@") || strings.Contains(dsn, "tcp(") {
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}

func main() {
	// config.Load happens in init of pkg/config

	db, err := openDatabase()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.Task{},
		&models.Feedback{},
	); err != nil {
		log.Fatalf("failed migrate: %v", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	rooms := hub.New()
	routes.RegisterRoutes(r, db, rooms)
	r.Run(":" + config.Port)
}
