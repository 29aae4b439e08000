// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/vidstream/internal/platform/sec"
)

/*
TestBcryptHasher verifies the hash and verify round trip.
*/
func TestBcryptHasher(t *testing.T) {
	hasher := sec.NewBcryptHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("p1")
	require.NoError(t, err)

	assert.NotEqual(t, "p1", digest)
	assert.True(t, hasher.Verify("p1", digest))
	assert.False(t, hasher.Verify("p2", digest))
	assert.False(t, hasher.Verify("p1", ""))
}

/*
TestNewBcryptHasher_InvalidCost verifies the fallback to the default cost.
*/
func TestNewBcryptHasher_InvalidCost(t *testing.T) {
	hasher := sec.NewBcryptHasher(99)

	digest, err := hasher.Hash("secret")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
