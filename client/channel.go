package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// ErrNotConnected is the non-fatal rejection for sends attempted while the
// channel is down; callers log it and keep the composer input.
var ErrNotConnected = errors.New("realtime channel not connected")

// ChannelState follows disconnected -> connecting -> connected; joined
// rooms are a sub-state of connected.
type ChannelState int

const (
	StateDisconnected ChannelState = iota
	StateConnecting
	StateConnected
)

func (s ChannelState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

type channelEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Channel is the page session's single realtime connection. One Channel is
// dialed at view mount and closed at unmount; reconnection after a drop is
// the caller's decision, not automatic.
type Channel struct {
	mu        sync.Mutex
	conn      *websocket.Conn
	state     ChannelState
	room      uint // currently joined room, 0 = none
	onMessage func(Message)
	done      chan struct{}
}

// NewChannel builds a channel that delivers receiveMessage payloads to
// onMessage. The callback runs on the read-loop goroutine.
func NewChannel(onMessage func(Message)) *Channel {
	return &Channel{onMessage: onMessage, state: StateDisconnected}
}

// wsEndpoint turns the REST base URL into the channel endpoint.
func wsEndpoint(baseURL, token string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/chat"
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Dial opens the connection and starts the receive loop.
func (ch *Channel) Dial(ctx context.Context, baseURL string, session *Session) error {
	token := session.Token()
	if token == "" {
		return ErrNoSession
	}

	ch.mu.Lock()
	if ch.state != StateDisconnected {
		ch.mu.Unlock()
		return errors.New("channel already dialed")
	}
	ch.state = StateConnecting
	ch.mu.Unlock()

	endpoint, err := wsEndpoint(baseURL, token)
	if err != nil {
		ch.setState(StateDisconnected)
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		ch.setState(StateDisconnected)
		return fmt.Errorf("dial realtime channel: %w", err)
	}

	ch.mu.Lock()
	ch.conn = conn
	ch.state = StateConnected
	ch.done = make(chan struct{})
	ch.mu.Unlock()

	go ch.readLoop(conn)
	return nil
}

func (ch *Channel) setState(s ChannelState) {
	ch.mu.Lock()
	ch.state = s
	ch.mu.Unlock()
}

// State returns the current connection state.
func (ch *Channel) State() ChannelState {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.state
}

// Connected reports whether sends are currently possible.
func (ch *Channel) Connected() bool {
	return ch.State() == StateConnected
}

// Room returns the currently joined room, 0 when none.
func (ch *Channel) Room() uint {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.room
}

func (ch *Channel) readLoop(conn *websocket.Conn) {
	defer func() {
		ch.mu.Lock()
		ch.state = StateDisconnected
		ch.room = 0
		done := ch.done
		ch.mu.Unlock()
		if done != nil {
			close(done)
		}
	}()

	for {
		var env channelEnvelope
		if err := conn.ReadJSON(&env); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[channel] read: %v", err)
			}
			return
		}
		switch env.Event {
		case "receiveMessage":
			var msg Message
			if err := json.Unmarshal(env.Data, &msg); err != nil {
				log.Printf("[channel] bad receiveMessage payload: %v", err)
				continue
			}
			if ch.onMessage != nil {
				ch.onMessage(msg)
			}
		case "error":
			var payload struct {
				Message string `json:"message"`
			}
			_ = json.Unmarshal(env.Data, &payload)
			log.Printf("[channel] server error: %s", payload.Message)
		default:
			log.Printf("[channel] unknown event %q", env.Event)
		}
	}
}

func (ch *Channel) emit(event string, data any) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.state != StateConnected || ch.conn == nil {
		return ErrNotConnected
	}
	buf, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}
	return ch.conn.WriteJSON(channelEnvelope{Event: event, Data: buf})
}

// Join subscribes to a conversation room. Joining while a different room is
// held emits the leave first so no cross-room traffic is delivered.
func (ch *Channel) Join(chatID uint) error {
	ch.mu.Lock()
	prev := ch.room
	ch.mu.Unlock()

	if prev != 0 && prev != chatID {
		if err := ch.emit("leaveRoom", prev); err != nil {
			return err
		}
	}
	if err := ch.emit("joinChat", map[string]uint{"chatId": chatID}); err != nil {
		return err
	}

	ch.mu.Lock()
	ch.room = chatID
	ch.mu.Unlock()
	return nil
}

// Leave unsubscribes from a conversation room.
func (ch *Channel) Leave(chatID uint) error {
	err := ch.emit("leaveRoom", chatID)
	ch.mu.Lock()
	if ch.room == chatID {
		ch.room = 0
	}
	ch.mu.Unlock()
	return err
}

// Send emits a message. The display list is not touched here: the
// authoritative copy comes back through the receiveMessage broadcast.
func (ch *Channel) Send(chatID, senderID uint, content string, isGroup bool) error {
	if !ch.Connected() {
		log.Printf("[channel] send skipped: not connected")
		return ErrNotConnected
	}
	return ch.emit("sendMessage", map[string]any{
		"chat":        chatID,
		"content":     content,
		"sender":      senderID,
		"isGroupChat": isGroup,
	})
}

// Close tears the connection down; the channel returns to disconnected.
func (ch *Channel) Close() error {
	ch.mu.Lock()
	conn := ch.conn
	done := ch.done
	ch.conn = nil
	ch.mu.Unlock()

	if conn == nil {
		return nil
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := conn.Close()
	if done != nil {
		<-done
	}
	return err
}
