// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidstream/pkg/normalize"
)

/*
TestUsername verifies that usernames collapse to one canonical lowercase form.
*/
func TestUsername(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "alice", "alice"},
		{"mixed case", "AlIcE", "alice"},
		{"surrounding spaces", "  Bob  ", "bob"},
		{"full width letters", "ＡＬＩＣＥ", "alice"},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.Username(tt.input))
		})
	}
}

/*
TestText verifies whitespace trimming.
*/
func TestText(t *testing.T) {
	assert.Equal(t, "Alice Liddell", normalize.Text("  Alice Liddell \n"))
	assert.Equal(t, "", normalize.Text(""))
}

/*
TestEmail verifies trimming and case folding.
*/
func TestEmail(t *testing.T) {
	assert.Equal(t, "alice@x.com", normalize.Email(" Alice@X.com "))
	assert.Equal(t, "", normalize.Email("   "))
}
