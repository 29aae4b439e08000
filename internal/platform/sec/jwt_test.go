// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidstream/internal/platform/sec"
)

func testTokenConfig() sec.TokenConfig {
	return sec.TokenConfig{
		Issuer:        "vidstream.test",
		AccessSecret:  "access-secret",
		AccessTTL:     time.Hour,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    240 * time.Hour,
	}
}

func newIssuer(t *testing.T, opts ...sec.IssuerOption) *sec.TokenIssuer {
	t.Helper()
	issuer, err := sec.NewTokenIssuer(testTokenConfig(), opts...)
	require.NoError(t, err)
	return issuer
}

/*
TestNewTokenIssuer_InvalidConfig verifies that misconfiguration is caught at startup.
*/
func TestNewTokenIssuer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*sec.TokenConfig)
	}{
		{"missing access secret", func(c *sec.TokenConfig) { c.AccessSecret = "" }},
		{"missing refresh secret", func(c *sec.TokenConfig) { c.RefreshSecret = "" }},
		{"zero access ttl", func(c *sec.TokenConfig) { c.AccessTTL = 0 }},
		{"negative refresh ttl", func(c *sec.TokenConfig) { c.RefreshTTL = -time.Minute }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testTokenConfig()
			tt.mutate(&cfg)

			_, err := sec.NewTokenIssuer(cfg)
			assert.Error(t, err)
		})
	}
}

/*
TestAccessToken_RoundTrip verifies the identity claims embedded in an access token.
*/
func TestAccessToken_RoundTrip(t *testing.T) {
	issuer := newIssuer(t)

	token, err := issuer.IssueAccessToken(sec.Identity{
		ID:       "0190a0c8-0000-7000-8000-000000000001",
		Username: "alice",
		Email:    "alice@x.com",
		FullName: "Alice Liddell",
	})
	require.NoError(t, err)

	claims, err := issuer.Verify(token, sec.KindAccess)
	require.NoError(t, err)

	assert.Equal(t, "0190a0c8-0000-7000-8000-000000000001", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@x.com", claims.Email)
	assert.Equal(t, "Alice Liddell", claims.FullName)
	assert.Equal(t, sec.KindAccess, claims.Kind)
	assert.Equal(t, "vidstream.test", claims.Issuer)
}

/*
TestRefreshToken_OnlyCarriesID verifies that refresh tokens embed nothing but the account ID.
*/
func TestRefreshToken_OnlyCarriesID(t *testing.T) {
	issuer := newIssuer(t)

	token, err := issuer.IssueRefreshToken("user-1")
	require.NoError(t, err)

	claims, err := issuer.Verify(token, sec.KindRefresh)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Empty(t, claims.Username)
	assert.Empty(t, claims.Email)
	assert.Empty(t, claims.FullName)
}

/*
TestRefreshToken_Unique verifies that two tokens minted at the same instant differ.
*/
func TestRefreshToken_Unique(t *testing.T) {
	frozen := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := newIssuer(t, sec.WithClock(func() time.Time { return frozen }))

	first, err := issuer.IssueRefreshToken("user-1")
	require.NoError(t, err)
	second, err := issuer.IssueRefreshToken("user-1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestVerify_Failures verifies the normalized failure for each kind of bad token.
*/
func TestVerify_Failures(t *testing.T) {
	issuer := newIssuer(t)

	access, err := issuer.IssueAccessToken(sec.Identity{ID: "user-1"})
	require.NoError(t, err)
	refresh, err := issuer.IssueRefreshToken("user-1")
	require.NoError(t, err)

	past := time.Now().Add(-300 * time.Hour)
	expiredIssuer := newIssuer(t, sec.WithClock(func() time.Time { return past }))
	expired, err := expiredIssuer.IssueRefreshToken("user-1")
	require.NoError(t, err)

	otherCfg := testTokenConfig()
	otherCfg.RefreshSecret = "someone-else"
	forger, err := sec.NewTokenIssuer(otherCfg)
	require.NoError(t, err)
	forged, err := forger.IssueRefreshToken("user-1")
	require.NoError(t, err)

	parts := strings.Split(refresh, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA"

	tests := []struct {
		name  string
		token string
		kind  sec.TokenKind
		want  error
	}{
		{"garbage", "not-a-jwt", sec.KindRefresh, sec.ErrTokenMalformed},
		{"empty", "", sec.KindAccess, sec.ErrTokenMalformed},
		{"expired", expired, sec.KindRefresh, sec.ErrTokenExpired},
		{"foreign secret", forged, sec.KindRefresh, sec.ErrInvalidSignature},
		{"tampered signature", tampered, sec.KindRefresh, sec.ErrInvalidSignature},
		{"access presented as refresh", access, sec.KindRefresh, sec.ErrInvalidSignature},
		{"refresh presented as access", refresh, sec.KindAccess, sec.ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := issuer.Verify(tt.token, tt.kind)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

/*
TestVerify_SameSecretKindCheck verifies the kind claim when both secrets are equal.
*/
func TestVerify_SameSecretKindCheck(t *testing.T) {
	cfg := testTokenConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	issuer, err := sec.NewTokenIssuer(cfg)
	require.NoError(t, err)

	access, err := issuer.IssueAccessToken(sec.Identity{ID: "user-1"})
	require.NoError(t, err)

	_, err = issuer.Verify(access, sec.KindRefresh)
	assert.ErrorIs(t, err, sec.ErrInvalidSignature)
}
