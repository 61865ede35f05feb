package client

import (
	"context"
	"errors"
	"testing"
)

type fakeDialogAPI struct {
	fakeAPI
	users      []User
	created    []Conversation
	addErr     error
	addedPairs [][2]uint
}

func (f *fakeDialogAPI) ListUsers(_ context.Context) ([]User, error) {
	return f.users, nil
}

func (f *fakeDialogAPI) CreateDirect(_ context.Context, otherUser uint) (Conversation, error) {
	conv := Conversation{ID: uint(100 + len(f.created)), Participants: []User{{ID: 1}, {ID: otherUser}}}
	f.created = append(f.created, conv)
	f.mu.Lock()
	f.chats = append(f.chats, conv)
	f.mu.Unlock()
	return conv, nil
}

func (f *fakeDialogAPI) CreateGroup(_ context.Context, name string, members []uint) (Conversation, error) {
	conv := Conversation{ID: uint(200 + len(f.created)), IsGroupChat: true, GroupName: name}
	f.created = append(f.created, conv)
	f.mu.Lock()
	f.chats = append(f.chats, conv)
	f.mu.Unlock()
	return conv, nil
}

func (f *fakeDialogAPI) AddMember(_ context.Context, chatID, userID uint) (Conversation, error) {
	if f.addErr != nil {
		return Conversation{}, f.addErr
	}
	f.addedPairs = append(f.addedPairs, [2]uint{chatID, userID})
	return Conversation{ID: chatID}, nil
}

func newDialogFixture(existing []Conversation) (*fakeDialogAPI, *Dialogs, *ConversationView) {
	api := &fakeDialogAPI{}
	api.chats = existing
	api.history = map[uint][]Message{}
	ch := &fakeChannel{connected: true}
	view := newTestView(&api.fakeAPI, ch)
	_ = view.Mount(context.Background())
	d := NewDialogs(api, view)
	return api, d, view
}

func TestAddContactGuardsExistingDirect(t *testing.T) {
	existing := []Conversation{
		{ID: 1, IsGroupChat: false, Participants: []User{{ID: 1}, {ID: 2}}},
	}
	api, d, _ := newDialogFixture(existing)

	if !d.HasDirectWith(2) {
		t.Fatal("expected existing direct conversation with user 2")
	}
	_, err := d.AddContact(context.Background(), 2)
	if !errors.Is(err, ErrContactExists) {
		t.Fatalf("expected ErrContactExists, got %v", err)
	}
	if len(api.created) != 0 {
		t.Fatal("guard should prevent the create call")
	}
}

func TestAddContactCreatesAndRefreshes(t *testing.T) {
	api, d, view := newDialogFixture(nil)

	conv, err := d.AddContact(context.Background(), 3)
	if err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	if conv.ID == 0 {
		t.Fatal("no conversation returned")
	}
	if len(api.created) != 1 {
		t.Fatalf("expected one create call, got %d", len(api.created))
	}
	// directory was refreshed and now contains the new contact
	if !d.HasDirectWith(3) {
		t.Fatalf("directory not refreshed: %+v", view.Chats())
	}
}

func TestCreateGroupValidation(t *testing.T) {
	api, d, _ := newDialogFixture(nil)
	ctx := context.Background()

	if _, err := d.CreateGroup(ctx, "   ", []uint{2}); !errors.Is(err, ErrGroupNameEmpty) {
		t.Fatalf("blank name: got %v", err)
	}
	if _, err := d.CreateGroup(ctx, "Study Group", nil); !errors.Is(err, ErrNoMembers) {
		t.Fatalf("no members: got %v", err)
	}
	if len(api.created) != 0 {
		t.Fatal("validation failures must not reach the network")
	}

	conv, err := d.CreateGroup(ctx, "Study Group", []uint{2, 3})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if conv.GroupName != "Study Group" {
		t.Fatalf("unexpected group: %+v", conv)
	}
}

func TestAddMemberSurfacesServerError(t *testing.T) {
	api, d, _ := newDialogFixture(nil)
	api.addErr = &APIError{Status: 409, Message: "user is already a member"}

	_, err := d.AddMemberToGroup(context.Background(), 5, 9)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "user is already a member" {
		t.Fatalf("server error not surfaced verbatim: %v", err)
	}
}

func TestPickableUsersFlagsExistingContacts(t *testing.T) {
	existing := []Conversation{
		{ID: 1, IsGroupChat: false, Participants: []User{{ID: 1}, {ID: 2}}},
		{ID: 2, IsGroupChat: true, Participants: []User{{ID: 1}, {ID: 3}}},
	}
	api, d, _ := newDialogFixture(existing)
	api.users = []User{{ID: 1, Username: "me"}, {ID: 2, Username: "ana"}, {ID: 3, Username: "bo"}}

	users, taken, err := d.PickableUsers(context.Background())
	if err != nil {
		t.Fatalf("PickableUsers: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("directory should include self, got %d users", len(users))
	}
	if !taken[2] {
		t.Fatal("user 2 has a direct conversation and should be flagged")
	}
	if taken[3] {
		t.Fatal("group membership must not flag user 3 as a contact")
	}
}
