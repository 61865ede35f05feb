package controllers_test

import (
	"net/http"
	"testing"
)

type taskResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Deadline  string `json:"deadline"`
	Completed bool   `json:"completed"`
}

func TestTaskLifecycle(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "alice")
	tok := tokenFor(t, alice)

	w := doJSON(t, r, http.MethodPost, "/task/", tok, map[string]any{
		"title":    "  Read chapter 3  ",
		"deadline": "2026-09-15",
	})
	mustStatus(t, w, http.StatusCreated)
	var created taskResponse
	decodeBody(t, w, &created)
	if created.Title != "Read chapter 3" {
		t.Fatalf("title = %q, want trimmed", created.Title)
	}

	// partial update: only the completed flag changes
	w = doJSON(t, r, http.MethodPut, "/task/"+itoa(created.ID), tok, map[string]any{
		"completed": true,
	})
	mustStatus(t, w, http.StatusOK)
	var updated taskResponse
	decodeBody(t, w, &updated)
	if !updated.Completed || updated.Title != "Read chapter 3" || updated.Deadline != "2026-09-15" {
		t.Fatalf("update clobbered fields: %+v", updated)
	}

	w = doJSON(t, r, http.MethodGet, "/task/", tok, nil)
	mustStatus(t, w, http.StatusOK)
	var list []taskResponse
	decodeBody(t, w, &list)
	if len(list) != 1 || !list[0].Completed {
		t.Fatalf("list = %+v", list)
	}

	w = doJSON(t, r, http.MethodDelete, "/task/"+itoa(created.ID), tok, nil)
	mustStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodDelete, "/task/"+itoa(created.ID), tok, nil)
	mustStatus(t, w, http.StatusNotFound)
}

func TestTaskValidation(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "alice")
	tok := tokenFor(t, alice)

	w := doJSON(t, r, http.MethodPost, "/task/", tok, map[string]any{"title": "   "})
	mustStatus(t, w, http.StatusBadRequest)

	w = doJSON(t, r, http.MethodPost, "/task/", tok, map[string]any{"title": "valid"})
	mustStatus(t, w, http.StatusCreated)
	var created taskResponse
	decodeBody(t, w, &created)

	empty := ""
	w = doJSON(t, r, http.MethodPut, "/task/"+itoa(created.ID), tok, map[string]any{"title": empty})
	mustStatus(t, w, http.StatusBadRequest)
}

func TestTasksAreScopedToOwner(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	w := doJSON(t, r, http.MethodPost, "/task/", tokenFor(t, alice), map[string]any{
		"title": "alice's task",
	})
	mustStatus(t, w, http.StatusCreated)
	var created taskResponse
	decodeBody(t, w, &created)

	// another user neither sees nor touches it
	w = doJSON(t, r, http.MethodGet, "/task/", tokenFor(t, bob), nil)
	mustStatus(t, w, http.StatusOK)
	var list []taskResponse
	decodeBody(t, w, &list)
	if len(list) != 0 {
		t.Fatalf("bob sees %d foreign tasks", len(list))
	}

	w = doJSON(t, r, http.MethodPut, "/task/"+itoa(created.ID), tokenFor(t, bob), map[string]any{
		"completed": true,
	})
	mustStatus(t, w, http.StatusNotFound)

	w = doJSON(t, r, http.MethodDelete, "/task/"+itoa(created.ID), tokenFor(t, bob), nil)
	mustStatus(t, w, http.StatusNotFound)
}
