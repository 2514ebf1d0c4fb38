package translit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// LibreProvider calls a LibreTranslate-compatible server.
type LibreProvider struct {
	endpoint string // full URL of the /translate route
	apiKey   string
	client   *http.Client
}

// NewLibreProvider returns a provider for the server at baseURL. The
// "/translate" route is appended unless baseURL already ends with it.
func NewLibreProvider(baseURL, apiKey string, timeout time.Duration) (*LibreProvider, error) {
	if baseURL == "" {
		return nil, ErrNotConfigured
	}
	if err := checkEndpoint(baseURL); err != nil {
		return nil, err
	}
	endpoint := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(endpoint, "/translate") {
		endpoint += "/translate"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &LibreProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

func (l *LibreProvider) Name() string { return "libretranslate" }

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// Translate returns text rendered in targetLang with the source language
// auto-detected.
func (l *LibreProvider) Translate(ctx context.Context, text, targetLang string) (string, error) {
	payload, err := json.Marshal(libreRequest{
		Q:      text,
		Source: "auto",
		Target: targetLang,
		Format: "text",
		APIKey: l.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("libretranslate: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("libretranslate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("libretranslate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("libretranslate: read response: %w", err)
	}

	var out libreResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("libretranslate: status %d: decode response: %w", resp.StatusCode, err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("libretranslate: status %d: %s", resp.StatusCode, out.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("libretranslate: status %d", resp.StatusCode)
	}
	return out.TranslatedText, nil
}
