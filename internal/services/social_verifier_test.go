package services

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testKid = "test-key"

type jwksFixture struct {
	key      *rsa.PrivateKey
	server   *httptest.Server
	requests atomic.Int32
}

func newJWKSFixture(t *testing.T) *jwksFixture {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	f := &jwksFixture{key: key}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwkSet{Keys: []jwk{{
			Kty: "RSA",
			Kid: testKid,
			Use: "sig",
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}}})
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *jwksFixture) sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKid
	signed, err := token.SignedString(f.key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func (f *jwksFixture) verifier() *SocialVerifier {
	jwks := NewJWKSClient(f.server.URL, f.server.Client())
	return &SocialVerifier{
		google: providerConfig{
			jwks:      jwks,
			issuers:   []string{"https://accounts.google.com"},
			audiences: []string{"web-client"},
		},
		apple: providerConfig{
			jwks:      jwks,
			issuers:   []string{"https://appleid.apple.com"},
			audiences: []string{"com.example.nutritrack"},
		},
	}
}

func TestSocialVerifier_ValidToken(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier()

	token := f.sign(t, jwt.MapClaims{
		"iss":   "https://appleid.apple.com",
		"aud":   "com.example.nutritrack",
		"sub":   "001234.abcd",
		"email": "user@privaterelay.appleid.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	id, err := v.Verify(bg, SocialApple, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.ProviderID != "001234.abcd" || id.Email != "user@privaterelay.appleid.com" || id.Provider != SocialApple {
		t.Errorf("identity = %+v", id)
	}

	if _, err := v.Verify(bg, SocialApple, token); err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if n := f.requests.Load(); n != 1 {
		t.Errorf("JWKS fetched %d times, want 1 (cached)", n)
	}
}

func TestSocialVerifier_Rejects(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier()
	valid := func() jwt.MapClaims {
		return jwt.MapClaims{
			"iss": "https://accounts.google.com",
			"aud": "web-client",
			"sub": "1098",
			"exp": time.Now().Add(time.Hour).Unix(),
		}
	}

	cases := []struct {
		name   string
		mutate func(jwt.MapClaims)
	}{
		{"wrong audience", func(c jwt.MapClaims) { c["aud"] = "someone-else" }},
		{"wrong issuer", func(c jwt.MapClaims) { c["iss"] = "https://evil.example.com" }},
		{"expired", func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Hour).Unix() }},
		{"no expiry", func(c jwt.MapClaims) { delete(c, "exp") }},
		{"no subject", func(c jwt.MapClaims) { delete(c, "sub") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims := valid()
			tc.mutate(claims)
			if _, err := v.Verify(bg, SocialGoogle, f.sign(t, claims)); err == nil {
				t.Fatal("expected verification error")
			}
		})
	}

	hs := jwt.NewWithClaims(jwt.SigningMethodHS256, valid())
	hs.Header["kid"] = testKid
	forged, err := hs.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign hs256: %v", err)
	}
	if _, err := v.Verify(bg, SocialGoogle, forged); err == nil {
		t.Error("HS256 token accepted")
	}
}

func TestSocialVerifier_UnsupportedAndUnconfigured(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier()
	if _, err := v.Verify(bg, SocialProvider("facebook"), "x"); !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("err = %v, want ErrUnsupportedProvider", err)
	}

	v.google.audiences = nil
	if _, err := v.Verify(bg, SocialGoogle, "x"); err == nil {
		t.Error("expected error when google sign-in is not configured")
	}
}

func TestParseSocialProvider(t *testing.T) {
	if p, err := ParseSocialProvider("google"); err != nil || p != SocialGoogle {
		t.Errorf("google: %v %v", p, err)
	}
	if _, err := ParseSocialProvider("Google"); !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("provider names are exact: err = %v", err)
	}
}
