package warble

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface the auth flow depends on.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the process-wide auth options.
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetContextKey() string
	GetAuthScheme() string
}

// VerifiedIdentity is the profile an identity provider attests to after
// verifying an external token. Only Email is guaranteed to be present.
type VerifiedIdentity struct {
	Email           string `json:"email"`
	GivenName       string `json:"given_name"`
	FamilyName      string `json:"family_name,omitempty"`
	ProfileImageURL string `json:"picture,omitempty"`
}

// IdentityVerifier exchanges an external identity token for verified profile
// attributes. Implementations do not retry; a failed verification surfaces
// immediately so the login attempt can be reported as failed.
type IdentityVerifier interface {
	Verify(ctx context.Context, externalToken string) (*VerifiedIdentity, error)
}

// TokenService signs and validates session tokens.
type TokenService interface {
	TokenValidator
	Generate(accountID, email string) (string, error)
	SignClaims(claims *SessionClaims) (string, error)
}

// TokenValidator validates tokens and extracts claims without tying callers
// to a specific signing implementation.
type TokenValidator interface {
	Validate(raw string) (*SessionClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(raw string) (*SessionClaims, error)

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(raw string) (*SessionClaims, error) {
	if f == nil {
		return nil, ErrTokenMalformed
	}
	return f(raw)
}

// AccountResolver maps a verified identity onto a persistent account,
// creating one on first sight. Users satisfies it.
type AccountResolver interface {
	GetOrCreate(ctx context.Context, record *User) (*User, error)
}

// DefaultLogger returns the fallback stdout logger used when a component is
// wired without one.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] WARBLE "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] WARBLE "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] WARBLE "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] WARBLE "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
