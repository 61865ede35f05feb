package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"lexiport/models"
	"lexiport/pkg/cache"
	"lexiport/pkg/config"
	"lexiport/pkg/hub"
	"lexiport/routes"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// newTestServer builds a full router over a fresh in-memory database.
// Each call gets its own database so tests do not see each other's rows.
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	r, db, _ := newRealtimeServer(t)
	return r, db
}

// newRealtimeServer additionally exposes the room hub so websocket tests
// can observe join and leave bookkeeping.
func newRealtimeServer(t *testing.T) (*gin.Engine, *gorm.DB, *hub.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:ctrl%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.Task{},
		&models.Feedback{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// the directory cache is process wide; a stale entry from another test's
	// database must not leak into this one
	cache.Default().Delete(cache.KeyFromStrings("user", "directory"))

	rooms := hub.New()
	r := gin.New()
	routes.RegisterRoutes(r, db, rooms)
	return r, db, rooms
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{
		Email:    username + "@example.com",
		Username: username,
	}
	if err := u.SetPassword("pass1234"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// tokenFor signs a JWT the way the login handler does.
func tokenFor(t *testing.T, u models.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": strconv.Itoa(int(u.ID)),
		"exp": time.Now().Add(time.Hour).Unix(),
		"jti": uuid.NewString(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.JWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// seedConversation inserts a conversation with the given participants.
func seedConversation(t *testing.T, db *gorm.DB, group bool, name string, users ...models.User) models.Conversation {
	t.Helper()
	conv := models.Conversation{
		IsGroupChat:  group,
		GroupName:    name,
		CreatedByID:  users[0].ID,
		Participants: users,
	}
	if err := db.Create(&conv).Error; err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	return conv
}

func seedMessage(t *testing.T, db *gorm.DB, conv models.Conversation, sender models.User, content string) models.Message {
	t.Helper()
	msg := models.Message{ConversationID: conv.ID, SenderID: sender.ID, Content: content}
	if err := db.Create(&msg).Error; err != nil {
		t.Fatalf("create message: %v", err)
	}
	return msg
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}
