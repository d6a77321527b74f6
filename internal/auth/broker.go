// Package auth obtains and caches the OAuth credential for the amenity APIs.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/randytsao24/fuelfinder/internal/shared"
)

// expiryMargin is subtracted from the upstream expiry so a credential is
// refreshed slightly before the server actually rejects it.
const expiryMargin = 60 * time.Second

const (
	defaultScheme    = "Bearer"
	defaultExpiresIn = 3600
	amenityUserAgent = "FuelFinder/4.0"
	amenityDeviceOS  = "web"
)

// Credential is a bearer credential for the amenity APIs.
type Credential struct {
	Token     string
	Scheme    string
	ExpiresAt time.Time
}

func (c Credential) valid(now time.Time) bool {
	return c.Token != "" && now.Before(c.ExpiresAt)
}

// Options configures a Broker.
type Options struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scope        string
	GrantType    string
	TokenAPIKey  string // x-api-key on the token endpoint

	AmenityAPIKey string // x-apikey on search/detail calls

	Timeout time.Duration
}

// Broker holds one cached credential and refreshes it before expiry.
// Refresh is serialized: concurrent callers of an expired broker produce a
// single token request.
type Broker struct {
	opts   Options
	client *http.Client
	now    func() time.Time

	mu   sync.Mutex
	cred Credential
}

// NewBroker creates a broker. The credential is fetched lazily on first use.
func NewBroker(opts Options) *Broker {
	if opts.GrantType == "" {
		opts.GrantType = "client_credentials"
	}
	return &Broker{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
		now:    time.Now,
	}
}

// Token returns a valid credential, refreshing it when expired. On refresh
// failure the stale cached credential is left in place and an auth error is
// returned; the caller must not proceed with dependent upstream calls.
func (b *Broker) Token(ctx context.Context) (Credential, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cred.valid(b.now()) {
		return b.cred, nil
	}

	cred, err := b.fetch(ctx)
	if err != nil {
		return Credential{}, err
	}
	b.cred = cred
	return cred, nil
}

// Headers builds the header set for amenity search/detail calls.
func (b *Broker) Headers(ctx context.Context) (http.Header, error) {
	if b.opts.AmenityAPIKey == "" {
		return nil, fmt.Errorf("%w: RXO_API_KEY is not configured", shared.ErrAuth)
	}

	cred, err := b.Token(ctx)
	if err != nil {
		return nil, err
	}

	h := http.Header{}
	h.Set("accept", "application/json")
	h.Set("content-type", "application/json")
	h.Set("user-agent", amenityUserAgent)
	h.Set("deviceos", amenityDeviceOS)
	h.Set("x-apikey", b.opts.AmenityAPIKey)
	h.Set("authorization", cred.Scheme+" "+cred.Token)
	return h, nil
}

type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Scope        string `json:"scope"`
	GrantType    string `json:"grant_type"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// fetch performs one token request. Callers hold b.mu.
func (b *Broker) fetch(ctx context.Context) (Credential, error) {
	if b.opts.TokenURL == "" {
		return Credential{}, fmt.Errorf("%w: TOKEN_URL is not configured", shared.ErrAuth)
	}
	if b.opts.ClientID == "" || b.opts.ClientSecret == "" || b.opts.Scope == "" {
		return Credential{}, fmt.Errorf("%w: TOKEN_CLIENT_ID / TOKEN_CLIENT_SECRET / TOKEN_SCOPE must all be set", shared.ErrAuth)
	}
	if b.opts.TokenAPIKey == "" {
		return Credential{}, fmt.Errorf("%w: TOKEN_X_API_KEY is required by the token endpoint", shared.ErrAuth)
	}

	body, err := json.Marshal(tokenRequest{
		ClientID:     b.opts.ClientID,
		ClientSecret: b.opts.ClientSecret,
		Scope:        b.opts.Scope,
		GrantType:    b.opts.GrantType,
	})
	if err != nil {
		return Credential{}, fmt.Errorf("%w: encoding token request: %v", shared.ErrAuth, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.opts.TokenURL, bytes.NewReader(body))
	if err != nil {
		return Credential{}, fmt.Errorf("%w: building token request: %v", shared.ErrAuth, err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-api-key", b.opts.TokenAPIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: token request failed: %v", shared.ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Credential{}, fmt.Errorf("%w: token endpoint returned status %d", shared.ErrAuth, resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return Credential{}, fmt.Errorf("%w: malformed token response: %v", shared.ErrAuth, err)
	}
	if tok.AccessToken == "" {
		return Credential{}, fmt.Errorf("%w: token response missing access_token", shared.ErrAuth)
	}

	scheme := tok.TokenType
	if scheme == "" {
		scheme = defaultScheme
	}
	expiresIn := tok.ExpiresIn
	if expiresIn == 0 {
		expiresIn = defaultExpiresIn
	}

	return Credential{
		Token:     tok.AccessToken,
		Scheme:    scheme,
		ExpiresAt: b.now().Add(time.Duration(expiresIn)*time.Second - expiryMargin),
	}, nil
}
