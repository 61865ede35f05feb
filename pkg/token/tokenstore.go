package tokenstore

import (
	"sync"
	"time"
)

// Revocation set keyed by jti. Each entry carries the token's own expiry:
// once the token would be rejected as expired anyway, the entry is dead
// weight and gets pruned, so the set never outgrows the population of live
// tokens. A multi-node deployment would need Redis or the DB instead; a
// single portal node does not.
var (
	mu      sync.RWMutex
	revoked = map[string]time.Time{}
)

// Revoke marks a jti as unusable for the remainder of the token's
// lifetime. A zero expiry revokes without end.
func Revoke(jti string, exp time.Time) {
	if jti == "" {
		return
	}
	now := time.Now()
	mu.Lock()
	defer mu.Unlock()
	for k, e := range revoked {
		if !e.IsZero() && e.Before(now) {
			delete(revoked, k)
		}
	}
	revoked[jti] = exp
}

// IsRevoked reports whether the jti was revoked and its token could still
// be presented.
func IsRevoked(jti string) bool {
	if jti == "" {
		return false
	}
	mu.RLock()
	exp, ok := revoked[jti]
	mu.RUnlock()
	if !ok {
		return false
	}
	if !exp.IsZero() && exp.Before(time.Now()) {
		mu.Lock()
		delete(revoked, jti)
		mu.Unlock()
		return false
	}
	return true
}
