package middleware

import (
	"errors"
	"lexiport/pkg/config"
	tokenstore "lexiport/pkg/token"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserIDKey = "current_user_id"
	ContextJTIKey    = "current_jti"
	ContextExpKey    = "current_token_exp"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// ParseToken validates a bearer JWT and returns the subject user id, jti,
// and expiry. Shared by the HTTP middleware and the websocket handshake,
// which carries the token as a query parameter instead of a header.
func ParseToken(tokenStr string) (userID uint, jti string, exp time.Time, err error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// only accept HMAC signing
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", time.Time{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", time.Time{}, ErrInvalidToken
	}

	jti, _ = claims["jti"].(string)
	if tokenstore.IsRevoked(jti) {
		return 0, "", time.Time{}, ErrRevokedToken
	}
	if f, ok := claims["exp"].(float64); ok {
		exp = time.Unix(int64(f), 0)
	}

	var sub string
	if s, ok := claims["sub"].(string); ok {
		sub = s
	} else if f, ok := claims["sub"].(float64); ok {
		// jwt lib may parse numeric as float64
		sub = strconv.Itoa(int(f))
	}
	id, convErr := strconv.ParseUint(sub, 10, 64)
	if convErr != nil || id == 0 {
		return 0, "", time.Time{}, ErrInvalidToken
	}
	return uint(id), jti, exp, nil
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing authorization header"})
			return
		}
		parts := strings.Fields(auth)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid authorization header"})
			return
		}

		uid, jti, exp, err := ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			return
		}

		c.Set(ContextUserIDKey, uid)
		c.Set(ContextJTIKey, jti)
		c.Set(ContextExpKey, exp)
		c.Next()
	}
}

// CurrentUserID reads the authenticated user id placed by AuthMiddleware.
func CurrentUserID(c *gin.Context) uint {
	v, _ := c.Get(ContextUserIDKey)
	uid, _ := v.(uint)
	return uid
}
