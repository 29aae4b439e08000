// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidstream/pkg/uuid"
)

/*
TestNew_SortableAndValid verifies that generated IDs are valid and time-ordered.
*/
func TestNew_SortableAndValid(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.True(t, uuid.Valid(first))
	assert.NotEqual(t, first, second)
	assert.Equal(t, byte('7'), first[14])
	assert.LessOrEqual(t, first[:13], second[:13])
}

/*
TestValid_Rejects verifies rejection of malformed identifiers.
*/
func TestValid_Rejects(t *testing.T) {
	for _, raw := range []string{"", "alice", "0190a0c8-0000-7000-8000"} {
		assert.False(t, uuid.Valid(raw), raw)
	}
}
