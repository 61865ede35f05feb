package controllers

import (
	"encoding/json"
	"lexiport/middleware"
	"lexiport/models"
	"lexiport/pkg/hub"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS handled at HTTP level; allow WS here
		return true
	},
}

// envelope is the wire frame for every realtime event, both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinPayload struct {
	ChatID uint `json:"chatId"`
}

type sendPayload struct {
	Chat        uint   `json:"chat"`
	Content     string `json:"content"`
	Sender      uint   `json:"sender"`
	IsGroupChat bool   `json:"isGroupChat"`
}

// roomID tolerates the leave payload arriving as a bare number or a string.
func roomID(raw json.RawMessage) (uint, bool) {
	var n uint
	if err := json.Unmarshal(raw, &n); err == nil && n != 0 {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err2 := strconv.ParseUint(strings.TrimSpace(s), 10, 64); err2 == nil && v != 0 {
			return uint(v), true
		}
	}
	return 0, false
}

// ChatWS holds the page session's realtime connection. Clients authenticate
// via ?token=JWT, then exchange JSON envelopes:
//
//	-> {event: "joinChat", data: {chatId: number}}
//	-> {event: "leaveRoom", data: number | string}
//	-> {event: "sendMessage", data: {chat, content, sender, isGroupChat}}
//	<- {event: "receiveMessage", data: Message}
//	<- {event: "error", data: {message: string}}
func ChatWS(db *gorm.DB, rooms *hub.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := strings.TrimSpace(c.Query("token"))
		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "missing token query"})
			return
		}
		uid, _, _, err := middleware.ParseToken(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[ws] upgrade error: %v", err)
			return
		}
		defer conn.Close()

		release := middleware.AcquireUserSlot(uid)
		defer release()

		client := rooms.NewClient(conn, uid)
		defer rooms.Remove(client)

		conn.SetReadLimit(1 << 20) // 1MB
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		})

		for {
			if err := conn.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
				return
			}
			mt, raw, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("[ws] read error for user %d: %v", uid, err)
				}
				return
			}
			if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
				continue
			}

			var env envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				writeErr(client, "invalid frame")
				continue
			}

			switch env.Event {
			case "joinChat":
				handleJoin(db, rooms, client, env.Data)
			case "leaveRoom":
				if id, ok := roomID(env.Data); ok {
					rooms.Leave(client, id)
				}
			case "sendMessage":
				handleSend(db, rooms, client, env.Data)
			default:
				log.Printf("[ws] unknown event %q from user %d", env.Event, uid)
			}
		}
	}
}

func writeErr(c *hub.Client, msg string) {
	_ = c.WriteJSON(gin.H{"event": "error", "data": gin.H{"message": msg}})
}

func handleJoin(db *gorm.DB, rooms *hub.Hub, c *hub.Client, raw json.RawMessage) {
	var p joinPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.ChatID == 0 {
		writeErr(c, "invalid joinChat payload")
		return
	}

	var conv models.Conversation
	if err := db.Preload("Participants").First(&conv, p.ChatID).Error; err != nil {
		writeErr(c, "conversation not found")
		return
	}
	if !conv.HasParticipant(c.UserID) {
		writeErr(c, "not a participant of this conversation")
		return
	}
	rooms.Join(c, conv.ID)
}

func handleSend(db *gorm.DB, rooms *hub.Hub, c *hub.Client, raw json.RawMessage) {
	var p sendPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.Chat == 0 {
		writeErr(c, "invalid sendMessage payload")
		return
	}
	content := strings.TrimSpace(p.Content)
	if content == "" {
		// blank sends are dropped, never persisted or broadcast
		log.Printf("[ws] dropping blank message from user %d", c.UserID)
		return
	}

	// the token, not the payload, decides the sender
	if !c.InRoom(p.Chat) {
		var conv models.Conversation
		if err := db.Preload("Participants").First(&conv, p.Chat).Error; err != nil {
			writeErr(c, "conversation not found")
			return
		}
		if !conv.HasParticipant(c.UserID) {
			writeErr(c, "not a participant of this conversation")
			return
		}
	}

	msg := models.Message{
		ConversationID: p.Chat,
		SenderID:       c.UserID,
		Content:        content,
	}
	if err := db.Create(&msg).Error; err != nil {
		writeErr(c, "failed to save message")
		return
	}
	if err := db.Preload("Sender").First(&msg, msg.ID).Error; err != nil {
		log.Printf("[ws] reload message %d: %v", msg.ID, err)
	}

	rooms.Broadcast(p.Chat, gin.H{"event": "receiveMessage", "data": messagePayload(&msg)})
}
