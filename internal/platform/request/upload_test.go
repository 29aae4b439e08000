// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidstream/internal/platform/apperr"
	requestutil "github.com/taibuivan/vidstream/internal/platform/request"
)

func multipartRequest(t *testing.T, files map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for field, content := range files {
		part, err := writer.CreateFormFile(field, field+".PNG")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.WriteField("fullName", "Alice"))
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return request
}

/*
TestStage_PresentAndMissingFields verifies staging and release of uploaded files.
*/
func TestStage_PresentAndMissingFields(t *testing.T) {
	stager, err := requestutil.NewFileStager(t.TempDir(), 1<<20)
	require.NoError(t, err)

	request := multipartRequest(t, map[string]string{"avatar": "avatar-bytes"})

	paths, release, err := stager.Stage(request, "avatar", "coverImage")
	require.NoError(t, err)

	avatarPath, ok := paths["avatar"]
	require.True(t, ok)
	_, hasCover := paths["coverImage"]
	assert.False(t, hasCover)

	content, err := os.ReadFile(avatarPath)
	require.NoError(t, err)
	assert.Equal(t, "avatar-bytes", string(content))
	assert.Contains(t, avatarPath, ".png")
	assert.Equal(t, "Alice", request.FormValue("fullName"))

	release()
	_, err = os.Stat(avatarPath)
	assert.True(t, os.IsNotExist(err))
}

/*
TestStage_NotMultipart verifies that a JSON body is rejected as a validation error.
*/
func TestStage_NotMultipart(t *testing.T) {
	stager, err := requestutil.NewFileStager(t.TempDir(), 1<<20)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPatch, "/api/v1/users/avatar", bytes.NewBufferString(`{}`))
	request.Header.Set("Content-Type", "application/json")

	_, release, err := stager.Stage(request, "avatar")
	defer release()

	assert.True(t, apperr.IsValidation(err))
}

/*
TestStage_ReleaseRemovesSpilledParts verifies that file parts the multipart parser
wrote to the OS temp dir are removed together with the staged copies.
*/
func TestStage_ReleaseRemovesSpilledParts(t *testing.T) {
	stager, err := requestutil.NewFileStager(t.TempDir(), 1<<20, requestutil.WithFormMemory(1))
	require.NoError(t, err)

	spillDir := t.TempDir()
	t.Setenv("TMPDIR", spillDir)

	request := multipartRequest(t, map[string]string{"avatar": strings.Repeat("a", 4096)})

	paths, release, err := stager.Stage(request, "avatar")
	require.NoError(t, err)
	require.Contains(t, paths, "avatar")

	spilled, err := os.ReadDir(spillDir)
	require.NoError(t, err)
	require.NotEmpty(t, spilled)

	release()

	spilled, err = os.ReadDir(spillDir)
	require.NoError(t, err)
	assert.Empty(t, spilled)
	_, err = os.Stat(paths["avatar"])
	assert.True(t, os.IsNotExist(err))
}
