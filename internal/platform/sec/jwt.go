// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, JWT signing)
// from the domain logic. Domain services consume it through narrow interfaces
// declared on their side.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// # Token Kinds

// TokenKind distinguishes the two halves of a session pair.
type TokenKind string

const (
	// KindAccess marks the short-lived token presented on every request.
	KindAccess TokenKind = "access"

	// KindRefresh marks the long-lived, store-verified token used only to rotate the pair.
	KindRefresh TokenKind = "refresh"
)

// # Verification Errors

var (
	// ErrTokenMalformed is returned when the token cannot be parsed at all.
	ErrTokenMalformed = errors.New("sec: token is malformed")

	// ErrTokenExpired is returned when the token parsed and verified but its exp has passed.
	ErrTokenExpired = errors.New("sec: token is expired")

	// ErrInvalidSignature is returned when the signature, algorithm or kind does not match.
	ErrInvalidSignature = errors.New("sec: token signature is invalid")
)

// # Claims

// AuthClaims represents the payload embedded inside a session token.
//
// Access tokens carry the full identity so that the authentication middleware
// can rebuild the caller without a store round trip. Refresh tokens only carry
// the account ID.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   string    `json:"_id"`
	Username string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
	FullName string    `json:"fullName,omitempty"`
	Kind     TokenKind `json:"kind"`
}

// Identity is the minimal account projection embedded into access tokens.
type Identity struct {
	ID       string
	Username string
	Email    string
	FullName string
}

// # Issuer

// TokenConfig holds the two independent signing secrets and lifetimes.
// It is built once at startup and never mutated.
type TokenConfig struct {
	Issuer        string
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

// TokenIssuer mints and verifies HS256 access and refresh tokens.
type TokenIssuer struct {
	config TokenConfig
	now    func() time.Time
}

// IssuerOption customizes a [TokenIssuer].
type IssuerOption func(*TokenIssuer)

// WithClock replaces the wall clock used for iat, exp and verification.
func WithClock(now func() time.Time) IssuerOption {
	return func(issuer *TokenIssuer) {
		issuer.now = now
	}
}

// NewTokenIssuer validates cfg and returns a ready issuer.
func NewTokenIssuer(cfg TokenConfig, opts ...IssuerOption) (*TokenIssuer, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("sec: access and refresh secrets are required")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("sec: token lifetimes must be positive")
	}

	issuer := &TokenIssuer{config: cfg, now: time.Now}
	for _, opt := range opts {
		opt(issuer)
	}

	return issuer, nil
}

// AccessTTL returns the configured access-token lifetime.
func (service *TokenIssuer) AccessTTL() time.Duration { return service.config.AccessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (service *TokenIssuer) RefreshTTL() time.Duration { return service.config.RefreshTTL }

// IssueAccessToken signs a short-lived token carrying the caller's identity.
func (service *TokenIssuer) IssueAccessToken(identity Identity) (string, error) {
	claims := AuthClaims{
		RegisteredClaims: service.registered(identity.ID, service.config.AccessTTL),
		UserID:           identity.ID,
		Username:         identity.Username,
		Email:            identity.Email,
		FullName:         identity.FullName,
		Kind:             KindAccess,
	}
	return service.sign(claims, service.config.AccessSecret)
}

// IssueRefreshToken signs a long-lived token that embeds only the account ID.
func (service *TokenIssuer) IssueRefreshToken(userID string) (string, error) {
	claims := AuthClaims{
		RegisteredClaims: service.registered(userID, service.config.RefreshTTL),
		UserID:           userID,
		Kind:             KindRefresh,
	}
	return service.sign(claims, service.config.RefreshSecret)
}

// Verify checks signature, algorithm, issuer, expiry and kind of a token string.
//
// # Returns
//   - The parsed claims on success.
//   - [ErrTokenMalformed], [ErrTokenExpired] or [ErrInvalidSignature] otherwise.
func (service *TokenIssuer) Verify(tokenString string, kind TokenKind) (*AuthClaims, error) {
	secret := service.config.AccessSecret
	if kind == KindRefresh {
		secret = service.config.RefreshSecret
	}

	claims := &AuthClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		return nil, classify(err)
	}

	if claims.Kind != kind || claims.UserID == "" {
		return nil, ErrInvalidSignature
	}

	return claims, nil
}

// registered builds the standard claim block shared by both token kinds.
func (service *TokenIssuer) registered(subject string, timeToLive time.Duration) jwt.RegisteredClaims {
	currentTime := service.now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Issuer:    service.config.Issuer,
		IssuedAt:  jwt.NewNumericDate(currentTime),
		ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
	}
}

func (service *TokenIssuer) sign(claims AuthClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign %s token: %w", claims.Kind, err)
	}
	return signedToken, nil
}

// classify folds jwt parser errors into the three verification outcomes.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	default:
		return ErrTokenMalformed
	}
}
