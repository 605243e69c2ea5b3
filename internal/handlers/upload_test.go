// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func multipartImage(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(content)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadLocal(t *testing.T) {
	dir := t.TempDir()
	h := NewUpload(dir, 1<<20, nil)

	body, contentType := multipartImage(t, "image", "photo.PNG", []byte("fake png bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeResp(t, rec)
	if resp["message"] != "File uploaded successfully" {
		t.Errorf("message: %v", resp["message"])
	}
	fileURL, _ := resp["fileUrl"].(string)
	if !strings.HasPrefix(fileURL, "/uploads/") || !strings.HasSuffix(fileURL, ".png") {
		t.Errorf("fileUrl: %q", fileURL)
	}

	saved := filepath.Join(dir, strings.TrimPrefix(fileURL, "/uploads/"))
	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "fake png bytes" {
		t.Error("saved content differs from upload")
	}
}

func TestUploadNoFile(t *testing.T) {
	h := NewUpload(t.TempDir(), 1<<20, nil)

	body, contentType := multipartImage(t, "document", "notes.txt", []byte("wrong field"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
	if decodeResp(t, rec)["message"] != "No file uploaded" {
		t.Errorf("message: %v", rec.Body.String())
	}
}

func TestUploadTooLarge(t *testing.T) {
	h := NewUpload(t.TempDir(), 64, nil)

	body, contentType := multipartImage(t, "image", "big.jpg", bytes.Repeat([]byte("x"), 1024))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestSanitizeExt(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"photo.PNG", ".png"},
		{"archive.tar.gz", ".gz"},
		{"no-extension", ""},
		{"trailing.", "."},
		{"weird.reallylongextension", ""},
	}
	for _, tc := range cases {
		if got := sanitizeExt(tc.in); got != tc.want {
			t.Errorf("sanitizeExt(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	body := decodeResp(t, rec)
	if body["success"] != true || body["message"] != "API is running" {
		t.Errorf("body: %v", body)
	}
}

func TestNotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	NotFound(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", rec.Code)
	}
	body := decodeResp(t, rec)
	if body["success"] != false || body["message"] != "Route not found" {
		t.Errorf("body: %v", body)
	}
}
