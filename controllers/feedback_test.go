package controllers_test

import (
	"lexiport/models"
	"net/http"
	"testing"
)

func TestFeedbackAnonymous(t *testing.T) {
	r, db := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/feedback/", "", map[string]any{
		"name":    "Visitor",
		"email":   "Visitor@Example.com",
		"message": "The reader font helps a lot",
	})
	mustStatus(t, w, http.StatusCreated)

	var fb models.Feedback
	if err := db.First(&fb).Error; err != nil {
		t.Fatalf("feedback row missing: %v", err)
	}
	if fb.UserID != nil {
		t.Fatal("anonymous feedback got linked to a user")
	}
	if fb.Email != "visitor@example.com" {
		t.Fatalf("email = %q, want lower cased", fb.Email)
	}
}

func TestFeedbackLinkedWhenAuthenticated(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "alice")

	w := doJSON(t, r, http.MethodPost, "/feedback/", tokenFor(t, alice), map[string]any{
		"message": "please add more fonts",
	})
	mustStatus(t, w, http.StatusCreated)

	var fb models.Feedback
	if err := db.First(&fb).Error; err != nil {
		t.Fatalf("feedback row missing: %v", err)
	}
	if fb.UserID == nil || *fb.UserID != alice.ID {
		t.Fatalf("feedback not linked to sender: %+v", fb)
	}
}

func TestFeedbackRequiresMessage(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/feedback/", "", map[string]any{
		"name": "Visitor", "message": "   ",
	})
	mustStatus(t, w, http.StatusBadRequest)
}

func TestFeedbackListingIsAdminOnly(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "alice")
	admin := createUser(t, db, "admin")
	if err := db.Model(&admin).Update("is_admin", true).Error; err != nil {
		t.Fatalf("promote admin: %v", err)
	}

	doJSON(t, r, http.MethodPost, "/feedback/", "", map[string]any{"message": "one"})
	doJSON(t, r, http.MethodPost, "/feedback/", "", map[string]any{"message": "two"})

	w := doJSON(t, r, http.MethodGet, "/feedback/", tokenFor(t, alice), nil)
	mustStatus(t, w, http.StatusForbidden)

	w = doJSON(t, r, http.MethodGet, "/feedback/", tokenFor(t, admin), nil)
	mustStatus(t, w, http.StatusOK)
	var entries []map[string]any
	decodeBody(t, w, &entries)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	// newest first
	if entries[0]["message"] != "two" {
		t.Fatalf("ordering = %v", entries)
	}
}
