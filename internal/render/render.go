// Package render wraps the external HTML-to-artifact conversion service.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Aswajit1997/Dicert/internal/config"
)

// Result is the outcome of a render: where the artifact was stored and how
// large it is.
type Result struct {
	URL       string `json:"url"`
	SizeBytes int64  `json:"size"`
}

// Renderer converts final markup into a stored artifact of the requested
// format (png, jpg, jpeg or pdf).
type Renderer interface {
	Render(ctx context.Context, html, folderPath, format string) (Result, error)
}

// HTTPRenderer calls a remote render service over HTTP.
type HTTPRenderer struct {
	url        string
	httpClient *http.Client
}

// NewHTTPRenderer creates a renderer for the configured service URL.
func NewHTTPRenderer(cfg config.RenderConfig) *HTTPRenderer {
	return &HTTPRenderer{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
	}
}

type renderRequest struct {
	HTML   string `json:"html"`
	Folder string `json:"folder"`
	Format string `json:"format"`
}

// Render posts the markup to the render service and returns the stored
// artifact's URL and size. Failures are surfaced to the caller; nothing is
// retried here.
func (r *HTTPRenderer) Render(ctx context.Context, html, folderPath, format string) (Result, error) {
	body, err := json.Marshal(renderRequest{HTML: html, Folder: folderPath, Format: format})
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("render service unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read render response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("render service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return Result{}, fmt.Errorf("failed to parse render response: %w", err)
	}

	return result, nil
}
