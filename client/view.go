package client

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
)

// ChatAPI is the slice of REST the conversation view needs.
type ChatAPI interface {
	ListChats(ctx context.Context) ([]Conversation, error)
	History(ctx context.Context, chatID uint) ([]Message, error)
}

// RoomChannel is the slice of the realtime channel the view drives.
type RoomChannel interface {
	Connected() bool
	Join(chatID uint) error
	Leave(chatID uint) error
	Send(chatID, senderID uint, content string, isGroup bool) error
}

// ConversationView owns the in-memory message list and the selected
// conversation for the duration of a page session. It merges history
// fetches with live arrivals and guards against results of a fetch that is
// no longer current.
type ConversationView struct {
	session *Session
	api     ChatAPI
	channel RoomChannel

	mu       sync.Mutex
	chats    []Conversation
	selected uint
	epoch    uint64 // bumped on every selection change; stale-fetch guard
	messages []Message
}

func NewConversationView(session *Session, api ChatAPI, channel RoomChannel) *ConversationView {
	return &ConversationView{session: session, api: api, channel: channel}
}

// Mount loads the conversation directory. The realtime channel is dialed
// separately by the owner of the page session.
func (v *ConversationView) Mount(ctx context.Context) error {
	return v.RefreshDirectory(ctx)
}

// RefreshDirectory re-fetches the sidebar's conversation list.
func (v *ConversationView) RefreshDirectory(ctx context.Context) error {
	chats, err := v.api.ListChats(ctx)
	if err != nil {
		return fmt.Errorf("refresh directory: %w", err)
	}
	v.mu.Lock()
	v.chats = chats
	v.mu.Unlock()
	return nil
}

// Select makes a conversation current: it leaves the previous room, joins
// the new one, and replaces the displayed messages with that conversation's
// history. A history response that resolves after the selection has moved
// on is discarded.
func (v *ConversationView) Select(ctx context.Context, chatID uint) error {
	v.mu.Lock()
	prev := v.selected
	v.selected = chatID
	v.epoch++
	myEpoch := v.epoch
	v.messages = nil
	v.mu.Unlock()

	if prev != 0 && prev != chatID {
		if err := v.channel.Leave(prev); err != nil {
			log.Printf("[view] leave room %d: %v", prev, err)
		}
	}
	if err := v.channel.Join(chatID); err != nil {
		log.Printf("[view] join room %d: %v", chatID, err)
	}

	history, err := v.api.History(ctx, chatID)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.epoch != myEpoch || v.selected != chatID {
		// a newer selection won; this response is stale
		return nil
	}
	v.messages = history
	return nil
}

// Send emits the composer text. Blank or whitespace-only input is a no-op.
// The message list is not updated here: the sender's own copy arrives via
// the receiveMessage broadcast, which keeps one consistent ordering for
// every participant.
func (v *ConversationView) Send(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	v.mu.Lock()
	chatID := v.selected
	isGroup := false
	for i := range v.chats {
		if v.chats[i].ID == chatID {
			isGroup = v.chats[i].IsGroupChat
			break
		}
	}
	v.mu.Unlock()

	if chatID == 0 {
		return fmt.Errorf("no conversation selected")
	}
	if !v.channel.Connected() {
		log.Printf("[view] message not sent: channel disconnected")
		return ErrNotConnected
	}
	return v.channel.Send(chatID, v.session.User().ID, text, isGroup)
}

// HandleIncoming appends a live message when its conversation is the
// selected one, preserving arrival order; otherwise it only patches the
// directory's last-message summary.
func (v *ConversationView) HandleIncoming(msg Message) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if msg.ChatID == v.selected && v.selected != 0 {
		v.messages = append(v.messages, msg)
	}
	for i := range v.chats {
		if v.chats[i].ID == msg.ChatID {
			m := msg
			v.chats[i].LastMessage = &m
			break
		}
	}
}

// Selected returns the current conversation id, 0 when none.
func (v *ConversationView) Selected() uint {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected
}

// Messages returns a copy of the displayed message list.
func (v *ConversationView) Messages() []Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Message, len(v.messages))
	copy(out, v.messages)
	return out
}

// Chats returns a copy of the directory.
func (v *ConversationView) Chats() []Conversation {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Conversation, len(v.chats))
	copy(out, v.chats)
	return out
}

// Conversation looks a directory entry up by id.
func (v *ConversationView) Conversation(chatID uint) (Conversation, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.chats {
		if v.chats[i].ID == chatID {
			return v.chats[i], true
		}
	}
	return Conversation{}, false
}

// Attribution resolves the display label for a message's sender: "You" for
// the current user (own=true, rendered right-aligned), the participant's
// username otherwise. Group senders resolve via the participant list,
// direct senders via the other participant.
func (v *ConversationView) Attribution(msg Message) (label string, own bool) {
	me := v.session.User().ID
	if msg.Sender.ID == me && me != 0 {
		return "You", true
	}

	conv, ok := v.Conversation(msg.ChatID)
	if ok {
		if conv.IsGroupChat {
			for _, p := range conv.Participants {
				if p.ID == msg.Sender.ID {
					return p.Username, false
				}
			}
		} else {
			for _, p := range conv.Participants {
				if p.ID != me {
					return p.Username, false
				}
			}
		}
	}
	if name := msg.Sender.Username(); name != "" {
		return name, false
	}
	return fmt.Sprintf("User %d", msg.Sender.ID), false
}
