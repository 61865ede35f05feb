package controllers

import (
	"lexiport/middleware"
	"lexiport/models"
	"lexiport/pkg/cache"
	"lexiport/pkg/config"
	tokenstore "lexiport/pkg/token"
	utils "lexiport/pkg/utills"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// userDirectoryKey caches GET /user/ results; invalidated whenever the
// registry changes.
var userDirectoryKey = cache.KeyFromStrings("user", "directory")

// Register handler
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Email           string `json:"email"`
			Username        string `json:"username"`
			Password        string `json:"password"`
			ConfirmPassword string `json:"confirmPassword"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
			return
		}

		email := strings.TrimSpace(strings.ToLower(body.Email))
		username := strings.TrimSpace(body.Username)
		password := body.Password

		if email == "" || username == "" || password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email, username, and password are required"})
			return
		}
		if body.ConfirmPassword != "" && password != body.ConfirmPassword {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Passwords do not match"})
			return
		}
		if !utils.ValidPassword(password) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password must contain at least one letter and one number"})
			return
		}

		var exists models.User
		if err := db.Where("email = ? OR username = ?", email, username).First(&exists).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"message": "Email or username already exists"})
			return
		} else if err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		user := models.User{
			Email:    email,
			Username: username,
		}
		if err := user.SetPassword(password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to set password"})
			return
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create user"})
			return
		}

		cache.Default().Delete(userDirectoryKey)
		c.JSON(http.StatusCreated, gin.H{"message": "User created", "user": user.Public()})
	}
}

// Login handler
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
			return
		}
		email := strings.TrimSpace(strings.ToLower(body.Email))
		password := body.Password

		if email == "" || password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		if !user.CheckPassword(password) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}

		// JWT with 1 day expiry
		jti := uuid.NewString()
		claims := jwt.MapClaims{
			"sub": strconv.Itoa(int(user.ID)),
			"exp": time.Now().Add(24 * time.Hour).Unix(),
			"jti": jti,
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenStr, err := token.SignedString([]byte(config.JWTSecret))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": tokenStr, "user": user.Public()})
	}
}

// Logout handler
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		jti, _ := c.Get(middleware.ContextJTIKey)
		expv, _ := c.Get(middleware.ContextExpKey)
		exp, _ := expv.(time.Time)
		if s, ok := jti.(string); ok && s != "" {
			tokenstore.Revoke(s, exp)
		}
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}
