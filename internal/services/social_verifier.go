package services

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SocialProvider is the closed set of supported sign-on providers.
type SocialProvider string

const (
	SocialGoogle SocialProvider = "google"
	SocialApple  SocialProvider = "apple"
)

const (
	googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"
	appleJWKSURL  = "https://appleid.apple.com/auth/keys"
)

var ErrUnsupportedProvider = errors.New("unsupported social provider")

func ParseSocialProvider(s string) (SocialProvider, error) {
	switch SocialProvider(s) {
	case SocialGoogle:
		return SocialGoogle, nil
	case SocialApple:
		return SocialApple, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, s)
}

// SocialIdentity is the verified subject of a provider identity token.
type SocialIdentity struct {
	Provider   SocialProvider
	ProviderID string
	Email      string
	FullName   string
}

// IdentityVerifier checks provider identity tokens.
type IdentityVerifier interface {
	Verify(ctx context.Context, provider SocialProvider, idToken string) (*SocialIdentity, error)
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

// JWKSClient fetches and caches a provider's RSA signing keys by kid.
type JWKSClient struct {
	url        string
	httpClient *http.Client
	ttl        time.Duration

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time
}

func NewJWKSClient(url string, httpClient *http.Client) *JWKSClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &JWKSClient{
		url:        url,
		httpClient: httpClient,
		ttl:        24 * time.Hour,
		keys:       make(map[string]*rsa.PublicKey),
	}
}

func (c *JWKSClient) fetchKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build JWKS request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var set jwkSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("failed to decode JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := parseRSAPublicKey(k.N, k.E)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}

	c.mu.Lock()
	c.keys = keys
	c.expiresAt = time.Now().Add(c.ttl)
	c.mu.Unlock()
	return nil
}

func parseRSAPublicKey(nStr, eStr string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(eStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	var e int
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nBytes), E: e}, nil
}

// PublicKey returns the key for kid, refreshing the set when the kid is
// unknown or the cache has expired.
func (c *JWKSClient) PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	fresh := time.Now().Before(c.expiresAt)
	c.mu.RUnlock()
	if ok && fresh {
		return key, nil
	}

	if err := c.fetchKeys(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if key, ok := c.keys[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("public key with kid %s not found", kid)
}

type identityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

type providerConfig struct {
	jwks      *JWKSClient
	issuers   []string
	audiences []string
}

// SocialVerifier validates Google and Apple identity tokens (RS256, issuer,
// audience, expiry) against each provider's published keys.
type SocialVerifier struct {
	google providerConfig
	apple  providerConfig
}

func NewSocialVerifier(googleClientIDs, appleBundleIDs []string) *SocialVerifier {
	return &SocialVerifier{
		google: providerConfig{
			jwks:      NewJWKSClient(googleJWKSURL, nil),
			issuers:   []string{"accounts.google.com", "https://accounts.google.com"},
			audiences: googleClientIDs,
		},
		apple: providerConfig{
			jwks:      NewJWKSClient(appleJWKSURL, nil),
			issuers:   []string{"https://appleid.apple.com"},
			audiences: appleBundleIDs,
		},
	}
}

func (v *SocialVerifier) providerFor(p SocialProvider) (*providerConfig, error) {
	switch p {
	case SocialGoogle:
		return &v.google, nil
	case SocialApple:
		return &v.apple, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, p)
}

func (v *SocialVerifier) Verify(ctx context.Context, provider SocialProvider, idToken string) (*SocialIdentity, error) {
	cfg, err := v.providerFor(provider)
	if err != nil {
		return nil, err
	}
	if len(cfg.audiences) == 0 {
		return nil, fmt.Errorf("%s sign-in is not configured", provider)
	}

	var claims identityClaims
	_, err = jwt.ParseWithClaims(idToken, &claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token header has no kid")
		}
		return cfg.jwks.PublicKey(ctx, kid)
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid %s identity token: %w", provider, err)
	}

	if !slices.Contains(cfg.issuers, claims.Issuer) {
		return nil, fmt.Errorf("invalid issuer: %s", claims.Issuer)
	}
	if !slices.ContainsFunc(claims.Audience, func(aud string) bool {
		return slices.Contains(cfg.audiences, aud)
	}) {
		return nil, fmt.Errorf("invalid audience: %v", claims.Audience)
	}
	if claims.Subject == "" {
		return nil, errors.New("identity token has no subject")
	}

	return &SocialIdentity{
		Provider:   provider,
		ProviderID: claims.Subject,
		Email:      claims.Email,
		FullName:   claims.Name,
	}, nil
}
