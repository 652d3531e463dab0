package google

import (
	"context"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/warblehq/warble"
)

const defaultJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// JWKSConfig holds offline verification options.
type JWKSConfig struct {
	// JWKSURL is where Google publishes its signing keys. Defaults to the
	// v3 certs endpoint.
	JWKSURL string
	// Audience, when set, must match the token's aud claim.
	Audience string
	// RefreshInterval controls background key refresh.
	RefreshInterval time.Duration
	Logger          warble.Logger
}

// JWKSVerifier verifies Google ID tokens offline against the published
// JWKS. Keys are cached and refreshed in the background, so verification
// does not hit the network per token the way the tokeninfo Verifier does.
type JWKSVerifier struct {
	jwks     *keyfunc.JWKS
	audience string
}

var _ warble.IdentityVerifier = (*JWKSVerifier)(nil)

// NewJWKSVerifier fetches the JWKS and starts the refresh loop. Cancel ctx
// to stop refreshing.
func NewJWKSVerifier(ctx context.Context, cfg JWKSConfig) (*JWKSVerifier, error) {
	if cfg.JWKSURL == "" {
		cfg.JWKSURL = defaultJWKSURL
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = time.Hour
	}
	logger := cfg.Logger

	jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
		Ctx:             ctx,
		RefreshInterval: cfg.RefreshInterval,
		RefreshTimeout:  10 * time.Second,
		RefreshErrorHandler: func(err error) {
			if logger != nil {
				logger.Warn("google jwks refresh failed: %v", err)
			}
		},
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, verificationError("jwks", 0, err, nil)
	}

	return &JWKSVerifier{
		jwks:     jwks,
		audience: cfg.Audience,
	}, nil
}

// Verify implements warble.IdentityVerifier.
func (v *JWKSVerifier) Verify(ctx context.Context, externalToken string) (*warble.VerifiedIdentity, error) {
	opts := []jwt.ParserOption{
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	var claims idClaims
	token, err := jwt.ParseWithClaims(externalToken, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, verificationError("jwks", 0, nil, map[string]any{
				"reason": "unexpected signing method",
				"alg":    t.Header["alg"],
			})
		}
		return v.jwks.Keyfunc(t)
	}, opts...)
	if err != nil {
		return nil, verificationError("jwks", 0, err, nil)
	}

	if !token.Valid || claims.Email == "" {
		return nil, verificationError("jwks", 0, nil, map[string]any{
			"reason": "token has no verifiable email",
		})
	}

	return &warble.VerifiedIdentity{
		Email:           claims.Email,
		GivenName:       claims.GivenName,
		FamilyName:      claims.FamilyName,
		ProfileImageURL: claims.Picture,
	}, nil
}

type idClaims struct {
	jwt.RegisteredClaims
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}
