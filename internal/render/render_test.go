package render

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aswajit1997/Dicert/internal/config"
)

func TestHTTPRenderer_Render(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req renderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.Format != "png" {
			t.Errorf("Expected format png, got %s", req.Format)
		}
		if req.Folder != "Issuer/GeneratedCertificates/1" {
			t.Errorf("Unexpected folder %s", req.Folder)
		}
		json.NewEncoder(w).Encode(Result{URL: "https://cdn/artifact.png", SizeBytes: 2048})
	}))
	defer srv.Close()

	r := NewHTTPRenderer(config.RenderConfig{URL: srv.URL, TimeoutSec: 5})
	result, err := r.Render(context.Background(), "<h1>hi</h1>", "Issuer/GeneratedCertificates/1", "png")
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	if result.URL != "https://cdn/artifact.png" {
		t.Errorf("Expected artifact URL, got %s", result.URL)
	}
	if result.SizeBytes != 2048 {
		t.Errorf("Expected size 2048, got %d", result.SizeBytes)
	}
}

func TestHTTPRenderer_Render_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewHTTPRenderer(config.RenderConfig{URL: srv.URL, TimeoutSec: 5})
	_, err := r.Render(context.Background(), "<h1>hi</h1>", "f", "png")
	if err == nil {
		t.Error("Render() should fail when the service returns an error status")
	}
}
