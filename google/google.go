// Package google verifies Google ID tokens, either online through the
// tokeninfo endpoint or offline against Google's published JWKS.
package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/warblehq/warble"
)

const defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Config holds Google verification options.
type Config struct {
	TokenInfoURL string
	HTTPClient   *http.Client
	Timeout      time.Duration
}

// Verifier implements warble.IdentityVerifier against the tokeninfo
// endpoint: one GET per verification, no retries.
type Verifier struct {
	config     Config
	httpClient *http.Client
}

var _ warble.IdentityVerifier = (*Verifier)(nil)

// New creates a new tokeninfo verifier.
func New(cfg Config) *Verifier {
	if cfg.TokenInfoURL == "" {
		cfg.TokenInfoURL = defaultTokenInfoURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Verifier{
		config:     cfg,
		httpClient: client,
	}
}

// Verify implements warble.IdentityVerifier.
func (v *Verifier) Verify(ctx context.Context, externalToken string) (*warble.VerifiedIdentity, error) {
	endpoint, err := url.Parse(v.config.TokenInfoURL)
	if err != nil {
		return nil, verificationError("tokeninfo", 0, err, nil)
	}

	params := endpoint.Query()
	params.Set("id_token", externalToken)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, verificationError("tokeninfo", 0, err, nil)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, verificationError("tokeninfo", 0, err, nil)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, verificationError("tokeninfo", resp.StatusCode, err, nil)
	}

	var info tokenInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, verificationError("tokeninfo", resp.StatusCode, err, nil)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, verificationError("tokeninfo", resp.StatusCode, nil, info.errorMetadata())
	}

	if info.Email == "" {
		return nil, verificationError("tokeninfo", resp.StatusCode, nil, map[string]any{
			"reason": "response is missing email",
		})
	}

	return info.toIdentity(), nil
}
