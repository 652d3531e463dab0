package google

import (
	"github.com/warblehq/warble"
)

// tokenInfo is the shape the tokeninfo endpoint answers with. Only a subset
// matters here; the rest is carried for error metadata.
type tokenInfo struct {
	Issuer        string `json:"iss"`
	Subject       string `json:"sub"`
	Audience      string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	ExpiresAt     string `json:"exp"`

	ErrorDescription string `json:"error_description"`
}

func (t tokenInfo) toIdentity() *warble.VerifiedIdentity {
	return &warble.VerifiedIdentity{
		Email:           t.Email,
		GivenName:       t.GivenName,
		FamilyName:      t.FamilyName,
		ProfileImageURL: t.Picture,
	}
}

func (t tokenInfo) errorMetadata() map[string]any {
	meta := map[string]any{}
	if t.ErrorDescription != "" {
		meta["error_description"] = t.ErrorDescription
	}
	return meta
}

func verificationError(operation string, status int, cause error, meta map[string]any) error {
	clone := warble.ErrIdentityVerification.Clone()
	if clone == nil {
		return warble.ErrIdentityVerification
	}
	if cause != nil {
		clone.Source = cause
	}

	merged := map[string]any{
		"provider":  "google",
		"operation": operation,
	}
	if status != 0 {
		merged["status"] = status
	}
	for k, v := range meta {
		merged[k] = v
	}

	return clone.WithMetadata(merged)
}
