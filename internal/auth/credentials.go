// Package auth isolates how passwords are stored and compared so the
// credential scheme can change without touching the store's callers.
package auth

import (
	"crypto/subtle"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Scheme turns a password into its stored form and checks a password
// against one.
type Scheme interface {
	// Hash returns the value to persist for password.
	Hash(password string) (string, error)
	// Verify reports whether password matches the stored value.
	Verify(password, stored string) bool
}

// Plaintext stores passwords verbatim and compares them exactly. It is the
// default because it preserves the observable login contract of databases
// created by earlier versions of this application.
type Plaintext struct{}

// Hash returns the password unchanged.
func (Plaintext) Hash(password string) (string, error) {
	return password, nil
}

// Verify compares the password and the stored value in constant time.
func (Plaintext) Verify(password, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}

// Bcrypt stores bcrypt hashes. Selecting it for a database that already holds
// plaintext rows will fail every login for those rows, so it is opt-in.
type Bcrypt struct{}

// Hash returns the bcrypt hash of the password.
func (Bcrypt) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify checks the password against a bcrypt hash.
func (Bcrypt) Verify(password, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// SchemeByName returns the scheme for a config value. Unknown names fall
// back to Plaintext.
func SchemeByName(name string) Scheme {
	if name == "bcrypt" {
		return Bcrypt{}
	}
	return Plaintext{}
}

// NewSessionToken returns an opaque handle identifying one logged-in
// session.
func NewSessionToken() string {
	return uuid.NewString()
}
