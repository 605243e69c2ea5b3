// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/storage"
)

// Upload handles authenticated image uploads. Files go to S3 when a
// client is configured, otherwise to the local uploads directory served
// at /uploads/.
type Upload struct {
	dir      string
	maxBytes int64
	s3       *storage.Client
}

// NewUpload creates a new Upload handler. s3 may be nil for local-only
// storage.
func NewUpload(dir string, maxBytes int64, s3 *storage.Client) *Upload {
	return &Upload{dir: dir, maxBytes: maxBytes, s3: s3}
}

// Handle accepts a single multipart file under the "image" field and
// stores it under a generated name. Returns the URL the file is
// reachable at.
func (h *Upload) Handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	name := uuid.New().String() + sanitizeExt(header.Filename)

	var fileURL string
	if h.s3 != nil {
		contentType := header.Header.Get("Content-Type")
		if err := h.s3.Upload(r.Context(), name, contentType, file, header.Size); err != nil {
			writeServerError(w, "s3 upload failed", err)
			return
		}
		fileURL = h.s3.FileURL(name)
	} else {
		if err := h.saveLocal(name, file); err != nil {
			writeServerError(w, "save upload failed", err)
			return
		}
		fileURL = "/uploads/" + name
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "File uploaded successfully",
		"fileUrl": fileURL,
	})
}

func (h *Upload) saveLocal(name string, src io.Reader) error {
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return err
	}

	dst, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// sanitizeExt returns the lowercased extension of the original filename,
// stripped of anything that isn't a plain extension.
func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}
