package controllers_test

import (
	"fmt"
	"lexiport/pkg/cache"
	"lexiport/pkg/config"
	"net/http"
	"testing"
	"time"
)

func TestDirectoryListsEveryoneIncludingSelf(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "alice")
	createUser(t, db, "bob")
	createUser(t, db, "carol")

	w := doJSON(t, r, http.MethodGet, "/user/", tokenFor(t, alice), nil)
	mustStatus(t, w, http.StatusOK)

	var users []map[string]any
	decodeBody(t, w, &users)
	if len(users) != 3 {
		t.Fatalf("directory size = %d, want 3", len(users))
	}
	names := map[string]bool{}
	for _, u := range users {
		names[u["username"].(string)] = true
		if _, leaked := u["passwordHash"]; leaked {
			t.Fatal("password hash leaked in directory")
		}
	}
	// the caller appears too; pickers filter client side
	if !names["alice"] {
		t.Fatal("directory omits the caller")
	}
}

func TestDirectoryCacheInvalidatedByRegistration(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "alice")
	tok := tokenFor(t, alice)

	w := doJSON(t, r, http.MethodGet, "/user/", tok, nil)
	mustStatus(t, w, http.StatusOK)
	var before []map[string]any
	decodeBody(t, w, &before)

	w = doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]any{
		"email": "dave@example.com", "username": "dave", "password": "pass1234",
	})
	mustStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, http.MethodGet, "/user/", tok, nil)
	mustStatus(t, w, http.StatusOK)
	var after []map[string]any
	decodeBody(t, w, &after)
	if len(after) != len(before)+1 {
		t.Fatalf("directory size after registration = %d, want %d", len(after), len(before)+1)
	}
}

func TestUserCacheCapacityTunableApplied(t *testing.T) {
	old := config.UserCacheMaxItems
	config.UserCacheMaxItems = 2
	defer func() {
		config.UserCacheMaxItems = old
		cache.SetMaxItems(old)
	}()

	// route setup applies the tunable to the default cache
	newTestServer(t)

	c := cache.Default()
	keys := make([]string, 5)
	for i := range keys {
		keys[i] = cache.KeyFromStrings("captest", fmt.Sprint(i))
		c.Set(keys[i], i, time.Minute)
	}
	retained := 0
	for _, k := range keys {
		if _, ok := c.Get(k); ok {
			retained++
		}
	}
	if retained > 2 {
		t.Fatalf("retained %d entries, capacity tunable of 2 not applied", retained)
	}
	for _, k := range keys {
		c.Delete(k)
	}
}

func TestProfileGetAndUpdate(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "alice")
	tok := tokenFor(t, alice)

	w := doJSON(t, r, http.MethodGet, "/user/profile", tok, nil)
	mustStatus(t, w, http.StatusOK)
	var profile map[string]any
	decodeBody(t, w, &profile)
	if profile["username"] != "alice" {
		t.Fatalf("profile = %v", profile)
	}

	w = doJSON(t, r, http.MethodPut, "/user/profile", tok, map[string]any{
		"username":  "alice2",
		"avatarUrl": "https://cdn.example.com/a.png",
	})
	mustStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodGet, "/user/profile", tok, nil)
	mustStatus(t, w, http.StatusOK)
	decodeBody(t, w, &profile)
	if profile["username"] != "alice2" || profile["avatarUrl"] != "https://cdn.example.com/a.png" {
		t.Fatalf("profile after update = %v", profile)
	}
}

func TestProfileUpdateRejectsTakenIdentity(t *testing.T) {
	r, db := newTestServer(t)
	createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	tok := tokenFor(t, bob)

	w := doJSON(t, r, http.MethodPut, "/user/profile", tok, map[string]any{
		"email": "alice@example.com",
	})
	mustStatus(t, w, http.StatusConflict)

	w = doJSON(t, r, http.MethodPut, "/user/profile", tok, map[string]any{
		"username": "alice",
	})
	mustStatus(t, w, http.StatusConflict)
}

func TestProfilePasswordChangeRules(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "alice")
	tok := tokenFor(t, alice)

	w := doJSON(t, r, http.MethodPut, "/user/profile", tok, map[string]any{
		"password": "lettersonly",
	})
	mustStatus(t, w, http.StatusBadRequest)

	w = doJSON(t, r, http.MethodPut, "/user/profile", tok, map[string]any{
		"password": "fresh5678",
	})
	mustStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "fresh5678",
	})
	mustStatus(t, w, http.StatusOK)
}
