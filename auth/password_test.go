package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/haku19602/beetlefactory-back/apperr"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name    string
		plain   string
		wantErr bool
	}{
		{name: "valid password", plain: "secret1", wantErr: false},
		{name: "minimum length", plain: "abcd", wantErr: false},
		{name: "maximum length", plain: strings.Repeat("a", 20), wantErr: false},
		{name: "too short", plain: "abc", wantErr: true},
		{name: "too long", plain: strings.Repeat("a", 21), wantErr: true},
		{name: "empty", plain: "", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			hash, err := HashPassword(test.plain)
			if test.wantErr {
				if err == nil {
					t.Fatal("HashPassword() error = nil, want ValidationFailed")
				}
				var appErr *apperr.Error
				if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidationFailed {
					t.Fatalf("HashPassword() error = %v, want KindValidationFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("HashPassword() error = %v", err)
			}
			if hash == test.plain {
				t.Fatal("HashPassword() stored the plaintext")
			}
			if !VerifyPassword(hash, test.plain) {
				t.Error("VerifyPassword() rejected the original plaintext")
			}
			if VerifyPassword(hash, test.plain+"x") {
				t.Error("VerifyPassword() accepted a wrong password")
			}
		})
	}
}

// Hashing a hash must not verify against the original plaintext: the length
// rule rejects bcrypt output, which is what guards against double-hashing.
func TestHashPassword_NoDoubleHash(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if _, err := HashPassword(hash); err == nil {
		t.Fatal("HashPassword(hash) succeeded, want length rejection")
	}
}
