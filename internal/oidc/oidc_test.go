package oidc

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss, err := NewIssuer("https://auth.comoi.test")
	require.NoError(t, err)

	tok, err := iss.Issue("user_2abc", "convex", time.Minute)
	require.NoError(t, err)

	sub, err := iss.Verifier("convex").Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", sub)
}

func TestVerifier_Rejects(t *testing.T) {
	iss, err := NewIssuer("https://auth.comoi.test")
	require.NoError(t, err)
	other, err := NewIssuer("https://evil.test")
	require.NoError(t, err)

	expired := func() string {
		iss.now = func() time.Time { return time.Now().Add(-time.Hour) }
		defer func() { iss.now = time.Now }()
		tok, err := iss.Issue("user_1", "convex", time.Minute)
		require.NoError(t, err)
		return tok
	}()
	wrongAud, err := iss.Issue("user_1", "web", time.Minute)
	require.NoError(t, err)
	foreign, err := other.Issue("user_1", "convex", time.Minute)
	require.NoError(t, err)
	noSub, err := iss.Issue("", "convex", time.Minute)
	require.NoError(t, err)

	v := iss.Verifier("convex")
	for name, tok := range map[string]string{
		"expired":         expired,
		"wrong audience":  wrongAud,
		"foreign key":     foreign,
		"missing subject": noSub,
		"garbage":         "not.a.jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewVerifier_HMAC(t *testing.T) {
	v, err := NewVerifier(Config{HMACSecret: "s3cret", Issuer: "comoi", Audience: "convex"})
	require.NoError(t, err)

	claims := jwt.RegisteredClaims{
		Issuer:    "comoi",
		Subject:   "user_9",
		Audience:  jwt.ClaimStrings{"convex"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	sub, err := v.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user_9", sub)

	// alg confusion: an HMAC verifier never accepts "none"
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = v.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewVerifier_NoKey(t *testing.T) {
	_, err := NewVerifier(Config{Audience: "convex"})
	assert.Error(t, err)

	_, err = NewVerifier(Config{PublicKeyPEM: "-----BEGIN PUBLIC KEY-----\nbad\n-----END PUBLIC KEY-----"})
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	tok, ok = BearerToken("bearer  xyz ")
	assert.True(t, ok)
	assert.Equal(t, "xyz", tok)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
}

func TestHandler_Token(t *testing.T) {
	iss, err := NewIssuer("http://localhost:8431/comoi-api/oidc")
	require.NoError(t, err)
	h := NewHandler(iss, "http://localhost:8431/comoi-api/oidc", "convex", zap.NewNop().Sugar())

	form := url.Values{"subject": {"user_7"}}
	req := httptest.NewRequest(http.MethodPost, "/comoi-api/oidc/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Token(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token_type":"Bearer"`)

	req = httptest.NewRequest(http.MethodPost, "/comoi-api/oidc/token", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.Token(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.JWKS(rec, httptest.NewRequest(http.MethodGet, "/comoi-api/oidc/jwks.json", nil))
	assert.Contains(t, rec.Body.String(), `"kty":"RSA"`)
}
