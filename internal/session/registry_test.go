package session

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
)

func TestRegistry_Create_TokenFormat(t *testing.T) {
	r := NewRegistry()

	token := r.Create(7, domain.RoleCustomer)

	if !strings.HasPrefix(token, "CUSTOMER_") {
		t.Errorf("token %q missing role prefix", token)
	}
	suffix := strings.TrimPrefix(token, "CUSTOMER_")
	if len(suffix) != suffixLength {
		t.Errorf("suffix length = %d, want %d", len(suffix), suffixLength)
	}
	for _, ch := range suffix {
		if !strings.ContainsRune(suffixCharset, ch) {
			t.Errorf("suffix contains unexpected character %q", ch)
		}
	}
}

func TestRegistry_Touch_ReturnsSubjectID(t *testing.T) {
	r := NewRegistry()
	token := r.Create(42, domain.RoleCompany)

	id, err := r.Touch(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Errorf("subject id = %d, want 42", id)
	}
}

func TestRegistry_Touch_UnknownToken(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Touch("COMPANY_nosuchtoken0000"); err != domain.ErrInvalidSession {
		t.Errorf("expected ErrInvalidSession, got %v", err)
	}
}

func TestRegistry_Touch_RefreshesLastAccess(t *testing.T) {
	r := NewRegistry()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }

	token := r.Create(1, domain.RoleCustomer)

	r.now = func() time.Time { return base.Add(10 * time.Minute) }
	if _, err := r.Touch(token); err != nil {
		t.Fatalf("touch failed: %v", err)
	}
	if got := r.sessions[token].LastAccessedAt; !got.Equal(base.Add(10 * time.Minute)) {
		t.Errorf("lastAccessedAt = %v, want %v", got, base.Add(10*time.Minute))
	}
}

func TestRegistry_Touch_NeverMovesBackwards(t *testing.T) {
	r := NewRegistry()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }

	token := r.Create(1, domain.RoleCustomer)

	// Clock skew: a touch observing an earlier time must not regress the stamp.
	r.now = func() time.Time { return base.Add(-time.Minute) }
	if _, err := r.Touch(token); err != nil {
		t.Fatalf("touch failed: %v", err)
	}
	if got := r.sessions[token].LastAccessedAt; !got.Equal(base) {
		t.Errorf("lastAccessedAt regressed to %v, want %v", got, base)
	}
}

func TestRegistry_RoleOf(t *testing.T) {
	r := NewRegistry()
	token := r.Create(domain.AdminID, domain.RoleAdmin)

	role, ok := r.RoleOf(token)
	if !ok || role != domain.RoleAdmin {
		t.Errorf("RoleOf = (%v, %v), want (ADMIN, true)", role, ok)
	}
	if _, ok := r.RoleOf("CUSTOMER_doesnotexist00"); ok {
		t.Error("RoleOf reported an absent token as present")
	}
}

func TestRegistry_Remove_Idempotent(t *testing.T) {
	r := NewRegistry()
	token := r.Create(1, domain.RoleCompany)

	r.Remove(token)
	r.Remove(token) // second remove is a no-op

	if _, err := r.Touch(token); err != domain.ErrInvalidSession {
		t.Errorf("expected ErrInvalidSession after remove, got %v", err)
	}
}

func TestRegistry_Sweep_EvictsAfterThreshold(t *testing.T) {
	r := NewRegistry()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }

	token := r.Create(1, domain.RoleCustomer)

	// 29 minutes idle: survives the sweep.
	r.now = func() time.Time { return base.Add(29 * time.Minute) }
	if removed := r.SweepExpired(30 * time.Minute); removed != 0 {
		t.Fatalf("sweep at 29m removed %d sessions, want 0", removed)
	}
	if _, err := r.Touch(token); err != nil {
		t.Fatalf("session evicted too early: %v", err)
	}

	// The touch above refreshed the session; 31 more minutes kills it.
	r.now = func() time.Time { return base.Add(29*time.Minute + 31*time.Minute) }
	if removed := r.SweepExpired(30 * time.Minute); removed != 1 {
		t.Fatalf("sweep removed %d sessions, want 1", removed)
	}
	if _, err := r.Touch(token); err != domain.ErrInvalidSession {
		t.Errorf("expected ErrInvalidSession after sweep, got %v", err)
	}
}

func TestRegistry_Sweep_EmptyRegistry(t *testing.T) {
	r := NewRegistry()
	if removed := r.SweepExpired(30 * time.Minute); removed != 0 {
		t.Errorf("sweep of empty registry removed %d", removed)
	}
}

func TestRegistry_ConcurrentTouchAndSweep(t *testing.T) {
	r := NewRegistry()
	tokens := make([]string, 50)
	for i := range tokens {
		tokens[i] = r.Create(int64(i), domain.RoleCustomer)
	}

	var wg sync.WaitGroup
	for _, token := range tokens {
		wg.Add(1)
		go func(tok string) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_, _ = r.Touch(tok)
			}
		}(token)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			r.SweepExpired(30 * time.Minute)
		}
	}()
	wg.Wait()

	// Nothing was idle, so nothing may have been evicted.
	if r.Len() != len(tokens) {
		t.Errorf("expected %d live sessions, got %d", len(tokens), r.Len())
	}
}
