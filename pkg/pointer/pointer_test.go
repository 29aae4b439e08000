// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidstream/pkg/pointer"
)

/*
TestTo_CopiesValue verifies that the returned pointer does not alias the argument.
*/
func TestTo_CopiesValue(t *testing.T) {
	token := "first"
	stored := pointer.To(token)
	token = "second"

	assert.Equal(t, "first", *stored)
}

/*
TestVal verifies nil and non-nil dereferencing.
*/
func TestVal(t *testing.T) {
	assert.Equal(t, "", pointer.Val[string](nil))
	assert.Equal(t, "x", pointer.Val(pointer.To("x")))
}
