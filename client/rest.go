package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 10 * 1024 * 1024 // guard against runaway bodies
)

// sharedHTTPClient pools connections across all REST calls.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: defaultTimeout,
}

// APIError carries the server's rejection verbatim so views can surface it
// in a toast without reinterpreting.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// REST exposes the portal's endpoints. All authenticated calls attach
// "Authorization: Bearer <token>" from the injected session; absence of a
// token fails before any network I/O.
type REST struct {
	baseURL string
	session *Session
	httpc   *http.Client
}

func NewREST(baseURL string, session *Session) *REST {
	return &REST{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		httpc:   sharedHTTPClient,
	}
}

func (r *REST) do(ctx context.Context, method, path string, body any, out any, authed bool) error {
	var token string
	if authed {
		token = r.session.Token()
		if token == "" {
			return ErrNoSession
		}
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Message = payload.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// RegisterAccount creates a new user.
func (r *REST) RegisterAccount(ctx context.Context, email, username, password string) error {
	body := map[string]string{"email": email, "username": username, "password": password}
	return r.do(ctx, http.MethodPost, "/auth/register", body, nil, false)
}

// Login authenticates and stores the token + user snapshot in the session.
func (r *REST) Login(ctx context.Context, email, password string) (User, error) {
	var out struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := r.do(ctx, http.MethodPost, "/auth/login", body, &out, false); err != nil {
		return User{}, err
	}
	r.session.Set(out.Token, out.User)
	return out.User, nil
}

// Logout revokes the token server-side, then clears the session either way.
func (r *REST) Logout(ctx context.Context) error {
	err := r.do(ctx, http.MethodPost, "/auth/logout", nil, nil, true)
	r.session.Clear()
	return err
}

// ListChats fetches the conversation directory for the current user.
func (r *REST) ListChats(ctx context.Context) ([]Conversation, error) {
	var out []Conversation
	if err := r.do(ctx, http.MethodGet, "/chat/chats", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsers fetches the full registered-user directory, self included.
func (r *REST) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := r.do(ctx, http.MethodGet, "/user/", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// History fetches a conversation's persisted messages in display order.
func (r *REST) History(ctx context.Context, chatID uint) ([]Message, error) {
	var out []Message
	path := fmt.Sprintf("/message/%d", chatID)
	if err := r.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDirect creates (or returns the existing) direct conversation with
// the target user. The server owns pair uniqueness.
func (r *REST) CreateDirect(ctx context.Context, otherUser uint) (Conversation, error) {
	var out Conversation
	body := map[string]any{"isGroupChat": false, "otherUser": otherUser}
	if err := r.do(ctx, http.MethodPost, "/chat/create", body, &out, true); err != nil {
		return Conversation{}, err
	}
	return out, nil
}

// CreateGroup creates a named group conversation with the given members.
func (r *REST) CreateGroup(ctx context.Context, name string, members []uint) (Conversation, error) {
	var out Conversation
	body := map[string]any{"isGroupChat": true, "groupName": name, "members": members}
	if err := r.do(ctx, http.MethodPost, "/chat/create", body, &out, true); err != nil {
		return Conversation{}, err
	}
	return out, nil
}

// AddMember adds a user to an existing group conversation.
func (r *REST) AddMember(ctx context.Context, chatID, userID uint) (Conversation, error) {
	var out Conversation
	path := fmt.Sprintf("/chat/add/user/%d", chatID)
	body := map[string]any{"newUser": userID}
	if err := r.do(ctx, http.MethodPut, path, body, &out, true); err != nil {
		return Conversation{}, err
	}
	return out, nil
}

// ListTasks fetches the current user's tasks.
func (r *REST) ListTasks(ctx context.Context) ([]Task, error) {
	var out []Task
	if err := r.do(ctx, http.MethodGet, "/task/", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTask adds a task to the tracker.
func (r *REST) CreateTask(ctx context.Context, title, deadline string) (Task, error) {
	var out Task
	body := map[string]string{"title": title, "deadline": deadline}
	if err := r.do(ctx, http.MethodPost, "/task/", body, &out, true); err != nil {
		return Task{}, err
	}
	return out, nil
}

// UpdateTask toggles or edits a task.
func (r *REST) UpdateTask(ctx context.Context, id uint, completed bool) (Task, error) {
	var out Task
	path := fmt.Sprintf("/task/%d", id)
	body := map[string]bool{"completed": completed}
	if err := r.do(ctx, http.MethodPut, path, body, &out, true); err != nil {
		return Task{}, err
	}
	return out, nil
}

// DeleteTask removes a task.
func (r *REST) DeleteTask(ctx context.Context, id uint) error {
	return r.do(ctx, http.MethodDelete, fmt.Sprintf("/task/%d", id), nil, nil, true)
}

// SubmitFeedback posts the feedback form. The endpoint is public, but a
// held session token is attached so the server links the entry to its
// sender.
func (r *REST) SubmitFeedback(ctx context.Context, name, email, message string) error {
	body := map[string]string{"name": name, "email": email, "message": message}
	return r.do(ctx, http.MethodPost, "/feedback/", body, nil, r.session.Active())
}

// BaseURL returns the configured server base URL.
func (r *REST) BaseURL() string {
	return r.baseURL
}
