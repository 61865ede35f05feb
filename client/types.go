// Package client implements the portal's chat feature against the REST API
// and the realtime channel: session handling, directory and history
// fetchers, the websocket room channel, and the conversation view state.
package client

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

type User struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	IsAdmin   bool   `json:"isAdmin,omitempty"`
}

type Conversation struct {
	ID           uint     `json:"id"`
	IsGroupChat  bool     `json:"isGroupChat"`
	GroupName    string   `json:"groupName,omitempty"`
	CreatedBy    uint     `json:"createdBy,omitempty"`
	Participants []User   `json:"participants"`
	LastMessage  *Message `json:"lastMessage,omitempty"`
}

type Message struct {
	ID        uint      `json:"id"`
	ChatID    uint      `json:"chat"`
	Sender    SenderRef `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

type Task struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Deadline  string `json:"deadline,omitempty"`
	Completed bool   `json:"completed"`
}

// SenderRef normalizes the sender field, which the wire may carry as a bare
// identifier or as a populated user object. Normalization happens here at
// the boundary so render code never branches on payload shape.
type SenderRef struct {
	ID   uint
	User *User
}

func (s *SenderRef) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "" || trimmed == "null" {
		*s = SenderRef{}
		return nil
	}
	if trimmed[0] == '{' {
		var u User
		if err := json.Unmarshal(b, &u); err != nil {
			return err
		}
		*s = SenderRef{ID: u.ID, User: &u}
		return nil
	}
	var n uint
	if err := json.Unmarshal(b, &n); err == nil {
		*s = SenderRef{ID: n}
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(str), 10, 64)
	if err != nil {
		return err
	}
	*s = SenderRef{ID: uint(v)}
	return nil
}

func (s SenderRef) MarshalJSON() ([]byte, error) {
	if s.User != nil {
		return json.Marshal(s.User)
	}
	return json.Marshal(s.ID)
}

// Username returns the populated name when the wire provided one.
func (s SenderRef) Username() string {
	if s.User != nil {
		return s.User.Username
	}
	return ""
}
