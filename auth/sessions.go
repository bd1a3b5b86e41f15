package auth

import (
	"github.com/haku19602/beetlefactory-back/apperr"
	"github.com/haku19602/beetlefactory-back/models"
)

// TokenStore persists the account session rows. Each row is one live device
// session and the row itself is the slot. Implementations report a missing
// slot as apperr.ErrInvalidToken so the manager can pass it straight through.
type TokenStore interface {
	// Insert appends a new session row for the user.
	Insert(userID, token string) error
	// Swap overwrites the row holding oldToken with newToken, keeping the
	// slot. Returns apperr.ErrInvalidToken when no such row exists.
	Swap(userID, oldToken, newToken string) error
	// DeleteByValue removes every row holding this token value. Removing an
	// absent token is not an error.
	DeleteByValue(userID, token string) error
	// Exists reports whether a row with this exact value is present.
	Exists(userID, token string) (bool, error)
	// FindUser loads the account with its cart. Returns
	// apperr.ErrInvalidToken when the account is gone.
	FindUser(userID string) (*models.User, error)
}

// SessionManager owns the account token rows. All token-list invariants live
// here: issue appends, rotate overwrites exactly one slot, revoke removes by
// value. A signed token is only valid while its row exists, which is what
// makes logout and rotation stick even for tokens whose signature still
// verifies.
type SessionManager struct {
	store  TokenStore
	signer *Signer
}

func NewSessionManager(store TokenStore, signer *Signer) *SessionManager {
	return &SessionManager{store: store, signer: signer}
}

func (m *SessionManager) Signer() *Signer { return m.signer }

// Issue mints a token for the user and appends it as a new session row.
func (m *SessionManager) Issue(userID string) (string, error) {
	token, err := m.signer.Sign(userID)
	if err != nil {
		return "", err
	}
	if err := m.store.Insert(userID, token); err != nil {
		return "", err
	}
	return token, nil
}

// Rotate replaces oldToken with a fresh one in the same slot. If another
// request already removed the slot (a logout racing this call), there is
// nothing to overwrite and the rotation fails as an invalid token instead of
// appending a duplicate session.
func (m *SessionManager) Rotate(userID, oldToken string) (string, error) {
	newToken, err := m.signer.Sign(userID)
	if err != nil {
		return "", err
	}
	if err := m.store.Swap(userID, oldToken, newToken); err != nil {
		return "", err
	}
	return newToken, nil
}

// Revoke removes every session row holding this token value. Removing an
// already-absent token is not an error, so logout is idempotent.
func (m *SessionManager) Revoke(userID, token string) error {
	return m.store.DeleteByValue(userID, token)
}

// Resolve authenticates a parsed token: the user must exist and the literal
// token value must still be among their session rows. Covers revoked and
// rotated-out tokens whose signature would otherwise still verify.
func (m *SessionManager) Resolve(userID, token string) (*models.User, error) {
	ok, err := m.store.Exists(userID, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrInvalidToken
	}
	return m.store.FindUser(userID)
}
