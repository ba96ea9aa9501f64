// Package oidc verifies bearer tokens from the external identity provider and,
// for local development, issues tokens of the same shape.
package oidc

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Config struct {
	Issuer       string
	Audience     string
	PublicKeyPEM string
	HMACSecret   string
	// DevIssuer makes the server sign its own tokens; never set in production.
	DevIssuer bool
}

func ConfigFromEnv() Config {
	c := Config{
		Issuer:       os.Getenv("OIDC_ISSUER"),
		Audience:     os.Getenv("OIDC_AUDIENCE"),
		PublicKeyPEM: os.Getenv("OIDC_PUBLIC_KEY_PEM"),
		HMACSecret:   os.Getenv("OIDC_HMAC_SECRET"),
		DevIssuer:    os.Getenv("OIDC_DEV_ISSUER") == "true",
	}
	if c.Audience == "" {
		c.Audience = "convex"
	}
	// PEM blocks in .env files are usually single-line with literal \n
	c.PublicKeyPEM = strings.ReplaceAll(c.PublicKeyPEM, `\n`, "\n")
	return c
}

// Verifier checks signature, issuer, audience and expiry and yields the subject.
type Verifier struct {
	key    any
	parser *jwt.Parser
}

// NewVerifier builds a verifier from an RSA public key or, failing that, an
// HMAC secret.
func NewVerifier(cfg Config) (*Verifier, error) {
	switch {
	case cfg.PublicKeyPEM != "":
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse OIDC_PUBLIC_KEY_PEM: %w", err)
		}
		return NewRSAVerifier(pub, cfg.Issuer, cfg.Audience), nil
	case cfg.HMACSecret != "":
		return newVerifier([]byte(cfg.HMACSecret), []string{"HS256", "HS384", "HS512"}, cfg.Issuer, cfg.Audience), nil
	}
	return nil, errors.New("oidc: one of OIDC_PUBLIC_KEY_PEM or OIDC_HMAC_SECRET is required")
}

func NewRSAVerifier(pub *rsa.PublicKey, issuer, audience string) *Verifier {
	return newVerifier(pub, []string{"RS256", "RS384", "RS512"}, issuer, audience)
}

func newVerifier(key any, methods []string, issuer, audience string) *Verifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return &Verifier{key: key, parser: jwt.NewParser(opts...)}
}

// Verify returns the token subject. Every failure wraps ErrInvalidToken.
func (v *Verifier) Verify(raw string) (string, error) {
	tok, err := v.parser.Parse(raw, func(*jwt.Token) (any, error) { return v.key, nil })
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	return sub, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	if len(header) < len("bearer ") || !strings.EqualFold(header[:len("bearer ")], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(header[len("bearer "):])
	return tok, tok != ""
}
