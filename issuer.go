package warble

import (
	"context"
)

// SessionIssuer orchestrates the login pipeline: verify the external token,
// resolve or create the account, mint the session token. Any stage failure
// propagates as ErrLoginFailed wrapping the original cause. Account creation
// is not rolled back on later failures; resolution is idempotent so a retry
// is safe.
type SessionIssuer struct {
	verifier IdentityVerifier
	accounts AccountResolver
	tokens   TokenService
	logger   Logger
}

// NewSessionIssuer returns a new SessionIssuer.
func NewSessionIssuer(verifier IdentityVerifier, accounts AccountResolver, tokens TokenService) *SessionIssuer {
	return &SessionIssuer{
		verifier: verifier,
		accounts: accounts,
		tokens:   tokens,
		logger:   defLogger{},
	}
}

func (s *SessionIssuer) WithLogger(logger Logger) *SessionIssuer {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Login exchanges an external identity token for a session token.
func (s *SessionIssuer) Login(ctx context.Context, externalToken string) (string, error) {
	identity, err := s.verifier.Verify(ctx, externalToken)
	if err != nil {
		s.logger.Error("Login verify identity error: %v", err)
		return "", loginFailure(err)
	}

	account, err := s.accounts.GetOrCreate(ctx, &User{
		Email:           identity.Email,
		FirstName:       identity.GivenName,
		LastName:        identity.FamilyName,
		ProfileImageURL: identity.ProfileImageURL,
	})
	if err != nil {
		s.logger.Error("Login account resolution error for %s: %v", identity.Email, err)
		return "", loginFailure(err)
	}

	token, err := s.tokens.Generate(account.ID.String(), account.Email)
	if err != nil {
		s.logger.Error("Login token generation error for %s: %v", account.ID, err)
		return "", loginFailure(err)
	}

	return token, nil
}

func loginFailure(cause error) error {
	clone := ErrLoginFailed.Clone()
	if clone == nil {
		return ErrLoginFailed
	}
	clone.Source = cause
	return clone
}
