package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier checks a presented admin password against the configured
// credential.
type PasswordVerifier interface {
	// Configured reports whether any credential is set at all.
	Configured() bool
	Verify(presented string) bool
}

// StaticVerifier holds the configured admin credential. When a bcrypt hash is
// set it wins over the plain password; plain comparison is constant-time.
type StaticVerifier struct {
	plain string
	hash  string
}

func NewStaticVerifier(plain, hash string) *StaticVerifier {
	return &StaticVerifier{plain: plain, hash: hash}
}

func (v *StaticVerifier) Configured() bool {
	return v.plain != "" || v.hash != ""
}

func (v *StaticVerifier) Verify(presented string) bool {
	if presented == "" {
		return false
	}
	if v.hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(v.hash), []byte(presented)) == nil
	}
	if v.plain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(v.plain), []byte(presented)) == 1
}
