package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Validation failures raised before any network call.
var (
	ErrContactExists  = errors.New("a direct conversation with this user already exists")
	ErrGroupNameEmpty = errors.New("group name is required")
	ErrNoMembers      = errors.New("at least one member is required")
)

// DialogAPI is the slice of REST the management dialogs call.
type DialogAPI interface {
	ListUsers(ctx context.Context) ([]User, error)
	CreateDirect(ctx context.Context, otherUser uint) (Conversation, error)
	CreateGroup(ctx context.Context, name string, members []uint) (Conversation, error)
	AddMember(ctx context.Context, chatID, userID uint) (Conversation, error)
}

// Dialogs implements the contact and group management flows on top of the
// directory held by the conversation view.
type Dialogs struct {
	api  DialogAPI
	view *ConversationView
}

func NewDialogs(api DialogAPI, view *ConversationView) *Dialogs {
	return &Dialogs{api: api, view: view}
}

// HasDirectWith scans the current directory for an existing non-group
// conversation with the user. This feeds the picker's disabled state; it is
// a UX guard only, the server stays authoritative on pair uniqueness.
func (d *Dialogs) HasDirectWith(userID uint) bool {
	for _, conv := range d.view.Chats() {
		if conv.IsGroupChat {
			continue
		}
		for _, p := range conv.Participants {
			if p.ID == userID {
				return true
			}
		}
	}
	return false
}

// PickableUsers returns the user directory with an existing-contact flag
// for the add-contact picker.
func (d *Dialogs) PickableUsers(ctx context.Context) ([]User, map[uint]bool, error) {
	users, err := d.api.ListUsers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load user directory: %w", err)
	}
	taken := make(map[uint]bool, len(users))
	for _, u := range users {
		if d.HasDirectWith(u.ID) {
			taken[u.ID] = true
		}
	}
	return users, taken, nil
}

// AddContact creates a direct conversation with the target and refreshes
// the directory. The server may answer with the existing conversation for
// a repeated pair; that is rendered, not treated as an error.
func (d *Dialogs) AddContact(ctx context.Context, targetUserID uint) (Conversation, error) {
	if d.HasDirectWith(targetUserID) {
		return Conversation{}, ErrContactExists
	}
	conv, err := d.api.CreateDirect(ctx, targetUserID)
	if err != nil {
		return Conversation{}, err
	}
	if err := d.view.RefreshDirectory(ctx); err != nil {
		return conv, err
	}
	return conv, nil
}

// CreateGroup validates the form, creates the group, and refreshes the
// directory. A server rejection comes back as the server's message so the
// dialog can show it without crashing.
func (d *Dialogs) CreateGroup(ctx context.Context, name string, memberIDs []uint) (Conversation, error) {
	if strings.TrimSpace(name) == "" {
		return Conversation{}, ErrGroupNameEmpty
	}
	if len(memberIDs) == 0 {
		return Conversation{}, ErrNoMembers
	}
	conv, err := d.api.CreateGroup(ctx, strings.TrimSpace(name), memberIDs)
	if err != nil {
		return Conversation{}, err
	}
	if err := d.view.RefreshDirectory(ctx); err != nil {
		return conv, err
	}
	return conv, nil
}

// AddMemberToGroup adds a user to an existing group and refreshes the
// directory.
func (d *Dialogs) AddMemberToGroup(ctx context.Context, chatID, userID uint) (Conversation, error) {
	conv, err := d.api.AddMember(ctx, chatID, userID)
	if err != nil {
		return Conversation{}, err
	}
	if err := d.view.RefreshDirectory(ctx); err != nil {
		return conv, err
	}
	return conv, nil
}
