// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/taibuivan/vidstream/internal/platform/apperr"
	"github.com/taibuivan/vidstream/internal/platform/constants"
	"github.com/taibuivan/vidstream/internal/platform/ctxutil"
)

// FileStager copies multipart uploads to a local directory so that the asset
// provider can read them from disk.
type FileStager struct {
	dir         string
	maxBytes    int64
	memoryBytes int64
}

// StagerOption customizes a [FileStager].
type StagerOption func(*FileStager)

// WithFormMemory overrides how much of a multipart body is parsed in memory.
func WithFormMemory(bytes int64) StagerOption {
	return func(stager *FileStager) { stager.memoryBytes = bytes }
}

// NewFileStager creates the staging directory if needed.
func NewFileStager(dir string, maxBytes int64, opts ...StagerOption) (*FileStager, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("request: failed to create upload dir %s: %w", dir, err)
	}

	stager := &FileStager{dir: dir, maxBytes: maxBytes, memoryBytes: min(maxBytes, constants.MultipartMemoryBytes)}
	for _, opt := range opts {
		opt(stager)
	}
	return stager, nil
}

/*
Stage writes every requested form file to the staging directory.

Description: Missing fields are simply absent from the returned map, so the
caller decides which files are mandatory. The returned release function removes
every staged file, along with any part the multipart parser spilled to disk, and
must be called once the request is done.

Parameters:
  - request: *http.Request (multipart/form-data)
  - fields: form field names to stage

Returns:
  - map[string]string: field name -> local path
  - func(): release
  - error: apperr.ValidationError for an unreadable or oversized form
*/
func (stager *FileStager) Stage(request *http.Request, fields ...string) (map[string]string, func(), error) {
	paths := make(map[string]string, len(fields))
	release := func() {
		for _, path := range paths {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				ctxutil.GetLogger(request.Context()).Warn("staged_file_remove_failed",
					slog.String("path", path), slog.Any("error", err))
			}
		}
		if request.MultipartForm != nil {
			if err := request.MultipartForm.RemoveAll(); err != nil {
				ctxutil.GetLogger(request.Context()).Warn("multipart_form_remove_failed", slog.Any("error", err))
			}
		}
	}

	request.Body = http.MaxBytesReader(nil, request.Body, stager.maxBytes)
	if err := request.ParseMultipartForm(stager.memoryBytes); err != nil {
		return nil, release, apperr.ValidationError("Invalid multipart form").WithCause(err)
	}

	for _, field := range fields {
		path, err := stager.stageOne(request, field)
		if err != nil {
			release()
			return nil, func() {}, err
		}
		if path != "" {
			paths[field] = path
		}
	}

	return paths, release, nil
}

// stageOne copies a single form file, returning "" when the field is absent.
func (stager *FileStager) stageOne(request *http.Request, field string) (string, error) {
	file, header, err := request.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", apperr.ValidationError("Invalid file for " + field).WithCause(err)
	}
	defer file.Close()

	extension := strings.ToLower(filepath.Ext(header.Filename))
	staged, err := os.CreateTemp(stager.dir, field+"-*"+extension)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("request_stage_create_failed: %w", err))
	}
	defer staged.Close()

	if _, err := io.Copy(staged, file); err != nil {
		_ = os.Remove(staged.Name())
		return "", apperr.Internal(fmt.Errorf("request_stage_copy_failed: %w", err))
	}

	return staged.Name(), nil
}
