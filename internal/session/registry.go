// Package session implements the process-wide registry mapping opaque bearer
// tokens to live sessions. It is constructed once at startup and passed
// explicitly to everything that needs it; there is no ambient singleton.
package session

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
)

const suffixLength = 15

const suffixCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// Session associates a token with a subject id, the role it was issued for,
// and the time of the last authorized access.
type Session struct {
	SubjectID      int64
	Role           domain.Role
	LastAccessedAt time.Time
}

// Registry is the shared token store. A single mutex guards the whole map:
// sessions are small and every operation is O(1), so one exclusion domain is
// enough even with the sweeper iterating concurrently with request traffic.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create inserts a new session and returns its bearer token. The token embeds
// the role name as a human-inspectable prefix; only the random suffix carries
// entropy. Differing prefixes make cross-role collisions structurally
// impossible.
func (r *Registry) Create(subjectID int64, role domain.Role) string {
	token := role.String() + "_" + randomSuffix()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[token] = Session{
		SubjectID:      subjectID,
		Role:           role,
		LastAccessedAt: r.now(),
	}
	return token
}

// Touch validates the token, refreshes its last-access time, and returns the
// subject id. It is both the liveness check and the keep-alive: every
// authorized operation goes through it.
func (r *Registry) Touch(token string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[token]
	if !ok {
		return 0, domain.ErrInvalidSession
	}
	// lastAccessedAt must never move backwards, even under a skewed clock.
	if now := r.now(); now.After(s.LastAccessedAt) {
		s.LastAccessedAt = now
		r.sessions[token] = s
	}
	return s.SubjectID, nil
}

// RoleOf reports the role a token was issued for without refreshing it, so a
// wrong-role token can be rejected before it extends the session's life.
func (r *Registry) RoleOf(token string) (domain.Role, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[token]
	return s.Role, ok
}

// Remove deletes the session if present. Removing an absent token is a no-op,
// which makes logout and the sweeper safe to race.
func (r *Registry) Remove(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// SweepExpired removes every session idle longer than maxIdle and returns how
// many were removed. The staleness check runs under the same lock as Touch, so
// a session refreshed concurrently with the sweep is never evicted.
func (r *Registry) SweepExpired(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for token, s := range r.sessions {
		if now.Sub(s.LastAccessedAt) > maxIdle {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed
}

// randomSuffix returns suffixLength alphanumeric characters from crypto/rand.
func randomSuffix() string {
	b := make([]byte, suffixLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand is documented never to fail on supported platforms.
		panic(err)
	}
	for i, v := range b {
		b[i] = suffixCharset[int(v)%len(suffixCharset)]
	}
	return string(b)
}
