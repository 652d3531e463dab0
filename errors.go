package warble

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeMissingSigningKey = "auth_missing_signing_key"
	TextCodeTokenMalformed    = "auth_token_malformed"
	TextCodeBadSignature      = "auth_token_bad_signature"
	TextCodeTokenExpired      = "auth_token_expired"
	TextCodeIdentityVerify    = "identity_verification_failed"
	TextCodeLoginFailed       = "auth_login_failed"
	TextCodeUnauthenticated   = "auth_unauthenticated"
	TextCodeForbidden         = "auth_forbidden"
	TextCodeDuplicateFollow   = "graph_duplicate_follow"
	TextCodeNotFollowing      = "graph_not_following"
	TextCodeAccountNotFound   = "account_not_found"
	TextCodeTweetNotFound     = "tweet_not_found"
)

// ErrMissingSigningKey is returned when no signing secret is configured.
// This is a startup failure; a process without a key cannot serve requests.
var ErrMissingSigningKey = errors.New("session signing key is not configured", errors.CategoryInternal).
	WithTextCode(TextCodeMissingSigningKey).
	WithCode(errors.CodeInternal)

// ErrTokenMalformed is returned when a token does not have the compact
// three-segment JWT structure.
var ErrTokenMalformed = errors.New("session token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrBadSignature is returned when the token signature does not verify
// against the configured key.
var ErrBadSignature = errors.New("session token signature mismatch", errors.CategoryAuth).
	WithTextCode(TextCodeBadSignature).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when the embedded expiration has passed.
var ErrTokenExpired = errors.New("session token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityVerification is returned when the identity provider rejects an
// external token or answers with an unusable profile.
var ErrIdentityVerification = errors.New("identity verification failed", errors.CategoryAuth).
	WithTextCode(TextCodeIdentityVerify).
	WithCode(errors.CodeUnauthorized)

// ErrLoginFailed wraps any stage failure in the login pipeline.
var ErrLoginFailed = errors.New("login failed", errors.CategoryAuth).
	WithTextCode(TextCodeLoginFailed).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated is returned by guards when the request carries no viewer.
var ErrUnauthenticated = errors.New("not authenticated", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned by guards when the viewer does not own the resource.
var ErrForbidden = errors.New("not allowed", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrDuplicateFollow is returned when a follow edge already exists for the pair.
var ErrDuplicateFollow = errors.New("already following", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateFollow).
	WithCode(errors.CodeConflict)

// ErrNotFollowing is returned when unfollowing a pair with no edge.
var ErrNotFollowing = errors.New("not following", errors.CategoryValidation).
	WithTextCode(TextCodeNotFollowing).
	WithCode(errors.CodeBadRequest)

// ErrAccountNotFound is returned for lookups of unknown accounts.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrTweetNotFound is returned for lookups of unknown tweets.
var ErrTweetNotFound = errors.New("tweet not found", errors.CategoryNotFound).
	WithTextCode(TextCodeTweetNotFound).
	WithCode(errors.CodeNotFound)

// IsTokenExpiredError reports whether err is the expiry failure.
func IsTokenExpiredError(err error) bool {
	return hasTextCode(err, TextCodeTokenExpired)
}

// IsMalformedError reports whether err is the structural failure.
func IsMalformedError(err error) bool {
	return hasTextCode(err, TextCodeTokenMalformed)
}

// IsLoginFailedError reports whether err came out of the login pipeline.
func IsLoginFailedError(err error) bool {
	return hasTextCode(err, TextCodeLoginFailed)
}

// IsAccountNotFound reports whether err is the missing-account failure.
func IsAccountNotFound(err error) bool {
	return hasTextCode(err, TextCodeAccountNotFound)
}

// IsTweetNotFound reports whether err is the missing-tweet failure.
func IsTweetNotFound(err error) bool {
	return hasTextCode(err, TextCodeTweetNotFound)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode == code
	}
	return false
}

// IsUniqueViolation matches constraint errors across the dialects we run on.
// The unique constraint is the source of truth for find-or-create races, so
// callers re-fetch instead of failing when this returns true.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "Duplicate entry")
}
