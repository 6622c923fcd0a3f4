package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/studiokit/backend/internal/storage"
)

func TestServeUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	files, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	ref, err := files.Save(context.Background(), "logo.png", strings.NewReader("png bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	r := gin.New()
	r.GET("/uploads/:ref", ServeUpload(files))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/"+ref, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "png bytes" {
		t.Fatalf("unexpected body: %q", w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "image/png" {
		t.Fatalf("expected image/png, got %q", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing file: expected 404, got %d", w.Code)
	}
}
