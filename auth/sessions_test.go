package auth

import (
	"errors"
	"sync"
	"testing"

	"github.com/haku19602/beetlefactory-back/apperr"
	"github.com/haku19602/beetlefactory-back/models"
)

// fakeTokenStore keeps the session rows as an ordered slice per user, matching
// the slot semantics of the real table.
type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string][]string
	users  map[string]*models.User
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{
		tokens: make(map[string][]string),
		users:  make(map[string]*models.User),
	}
}

func (s *fakeTokenStore) Insert(userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[userID] = append(s.tokens[userID], token)
	return nil
}

func (s *fakeTokenStore) Swap(userID, oldToken, newToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tokens[userID] {
		if t == oldToken {
			s.tokens[userID][i] = newToken
			return nil
		}
	}
	return apperr.ErrInvalidToken
}

func (s *fakeTokenStore) DeleteByValue(userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.tokens[userID][:0]
	for _, t := range s.tokens[userID] {
		if t != token {
			kept = append(kept, t)
		}
	}
	s.tokens[userID] = kept
	return nil
}

func (s *fakeTokenStore) Exists(userID, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens[userID] {
		if t == token {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeTokenStore) FindUser(userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, apperr.ErrInvalidToken
	}
	return user, nil
}

func (s *fakeTokenStore) slots(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.tokens[userID]...)
}

func newTestSessionManager() (*SessionManager, *fakeTokenStore) {
	store := newFakeTokenStore()
	store.users["user-1"] = &models.User{ID: "user-1", Account: "alice1"}
	return NewSessionManager(store, NewSigner("test-secret")), store
}

func TestSessionManager_IssueAndResolve(t *testing.T) {
	manager, store := newTestSessionManager()

	token, err := manager.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if got := store.slots("user-1"); len(got) != 1 || got[0] != token {
		t.Fatalf("slots = %v, want [%s]", got, token)
	}

	user, err := manager.Resolve("user-1", token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("Resolve() user = %q, want user-1", user.ID)
	}
}

// A revoked token must fail even though its signature and expiry still verify:
// validity requires the row, not just the signature.
func TestSessionManager_RevokedTokenIsDead(t *testing.T) {
	manager, _ := newTestSessionManager()

	token, err := manager.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, _, err := manager.Signer().Parse(token); err != nil {
		t.Fatalf("Parse() error = %v, token should still verify", err)
	}

	if err := manager.Revoke("user-1", token); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if _, err := manager.Resolve("user-1", token); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("Resolve() after revoke = %v, want ErrInvalidToken", err)
	}
}

func TestSessionManager_RevokeIsIdempotent(t *testing.T) {
	manager, _ := newTestSessionManager()

	token, err := manager.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if err := manager.Revoke("user-1", token); err != nil {
		t.Fatalf("first Revoke() error = %v", err)
	}
	if err := manager.Revoke("user-1", token); err != nil {
		t.Fatalf("second Revoke() error = %v, want nil", err)
	}
}

// Rotation: the old token dies, the new token lives, and exactly one token
// occupies the rotated slot. Other device sessions are untouched.
func TestSessionManager_Rotate(t *testing.T) {
	manager, store := newTestSessionManager()

	first, err := manager.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	second, err := manager.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	rotated, err := manager.Rotate("user-1", first)
	if err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	if rotated == first {
		t.Fatal("Rotate() returned the old token")
	}

	if _, err := manager.Resolve("user-1", first); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("Resolve(old) = %v, want ErrInvalidToken", err)
	}
	if _, err := manager.Resolve("user-1", rotated); err != nil {
		t.Fatalf("Resolve(new) error = %v", err)
	}
	if _, err := manager.Resolve("user-1", second); err != nil {
		t.Fatalf("Resolve(other session) error = %v", err)
	}

	slots := store.slots("user-1")
	if len(slots) != 2 {
		t.Fatalf("len(slots) = %d, want 2", len(slots))
	}
	if slots[0] != rotated || slots[1] != second {
		t.Errorf("slots = %v, want [%s %s]: rotation must keep the slot order", slots, rotated, second)
	}
}

// A logout racing the rotation removes the slot first; the rotation must then
// fail cleanly instead of appending a duplicate session.
func TestSessionManager_RotateAfterRevoke(t *testing.T) {
	manager, store := newTestSessionManager()

	token, err := manager.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if err := manager.Revoke("user-1", token); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	if _, err := manager.Rotate("user-1", token); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("Rotate() after revoke = %v, want ErrInvalidToken", err)
	}
	if got := store.slots("user-1"); len(got) != 0 {
		t.Errorf("slots = %v, want empty: failed rotation must not append", got)
	}
}

// The account itself disappearing reads as an invalid token, not a distinct
// error.
func TestSessionManager_ResolveDeletedUser(t *testing.T) {
	manager, store := newTestSessionManager()

	token, err := manager.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	delete(store.users, "user-1")

	if _, err := manager.Resolve("user-1", token); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("Resolve() = %v, want ErrInvalidToken", err)
	}
}
