package oidc

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer signs identity tokens with an in-memory RSA key. It stands in for the
// identity provider in local runs and tests.
type Issuer struct {
	key    *rsa.PrivateKey
	kid    string
	issuer string
	now    func() time.Time
}

func NewIssuer(issuer string) (*Issuer, error) {
	k, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	h := sha256.Sum256(k.PublicKey.N.Bytes())
	kid := base64.RawURLEncoding.EncodeToString(h[:8])
	return &Issuer{key: k, kid: kid, issuer: issuer, now: time.Now}, nil
}

func (s *Issuer) PublicKey() *rsa.PublicKey {
	return &s.key.PublicKey
}

// Verifier accepts exactly the tokens this issuer signs for audience.
func (s *Issuer) Verifier(audience string) *Verifier {
	return NewRSAVerifier(s.PublicKey(), s.issuer, audience)
}

// JWKS returns a minimal key set containing the public key.
func (s *Issuer) JWKS() map[string]any {
	pub := s.key.PublicKey
	jwk := map[string]any{
		"kty": "RSA",
		"use": "sig",
		"alg": "RS256",
		"kid": s.kid,
		"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}
	return map[string]any{"keys": []any{jwk}}
}

// Issue signs an RS256 token for subject.
func (s *Issuer) Issue(subject, audience string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = s.kid
	return tok.SignedString(s.key)
}
