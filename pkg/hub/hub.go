package hub

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks which websocket connections are joined to which conversation
// room. One hub serves the whole process; rooms are created lazily on first
// join and removed when their last subscriber leaves.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*Client]struct{}
}

// Client wraps one websocket connection. Writes are serialized through a
// mutex because gorilla connections allow only one concurrent writer.
type Client struct {
	UserID uint

	conn    *websocket.Conn
	writeMu sync.Mutex

	mu    sync.Mutex
	rooms map[uint]struct{}
}

func New() *Hub {
	return &Hub{rooms: make(map[uint]map[*Client]struct{})}
}

// NewClient registers a connection with the hub. conn may be nil in tests
// that only exercise room bookkeeping.
func (h *Hub) NewClient(conn *websocket.Conn, userID uint) *Client {
	return &Client{UserID: userID, conn: conn, rooms: make(map[uint]struct{})}
}

// WriteJSON sends v on the client's connection, serialized per connection.
func (c *Client) WriteJSON(v any) error {
	if c.conn == nil {
		return nil
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

// Join subscribes the client to a room.
func (h *Hub) Join(c *Client, room uint) {
	h.mu.Lock()
	subs := h.rooms[room]
	if subs == nil {
		subs = make(map[*Client]struct{})
		h.rooms[room] = subs
	}
	subs[c] = struct{}{}
	h.mu.Unlock()

	c.mu.Lock()
	c.rooms[room] = struct{}{}
	c.mu.Unlock()
}

// Leave unsubscribes the client from a room; delivery to this client stops
// immediately.
func (h *Hub) Leave(c *Client, room uint) {
	h.mu.Lock()
	if subs, ok := h.rooms[room]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()

	c.mu.Lock()
	delete(c.rooms, room)
	c.mu.Unlock()
}

// Remove drops the client from every room it joined; called on disconnect.
func (h *Hub) Remove(c *Client) {
	c.mu.Lock()
	joined := make([]uint, 0, len(c.rooms))
	for room := range c.rooms {
		joined = append(joined, room)
	}
	c.rooms = make(map[uint]struct{})
	c.mu.Unlock()

	h.mu.Lock()
	for _, room := range joined {
		if subs, ok := h.rooms[room]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	h.mu.Unlock()
}

// InRoom reports whether the client currently subscribes to room.
func (c *Client) InRoom(room uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.rooms[room]
	return ok
}

// Broadcast writes v to every subscriber of room, the originator included.
// Write errors are returned to the caller only as a count; a failed peer is
// cleaned up by its own read loop.
func (h *Hub) Broadcast(room uint, v any) int {
	h.mu.RLock()
	subs := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		subs = append(subs, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range subs {
		if err := c.WriteJSON(v); err == nil {
			delivered++
		}
	}
	return delivered
}

// RoomSize returns the current subscriber count for room.
func (h *Hub) RoomSize(room uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
