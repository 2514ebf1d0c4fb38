package translit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultGoogleEndpoint is the public web-client translation endpoint.
const DefaultGoogleEndpoint = "https://translate.googleapis.com/translate_a/single"

// DefaultTimeout bounds one provider call.
const DefaultTimeout = 10 * time.Second

// maxResponseSize caps how much of a provider response is read.
const maxResponseSize = 1 << 20

// GoogleProvider calls a Google-Translate compatible "translate_a/single"
// endpoint with the gtx web client parameters.
type GoogleProvider struct {
	endpoint string
	client   *http.Client
}

// NewGoogleProvider validates endpoint and returns a provider. An empty
// endpoint selects DefaultGoogleEndpoint; a non-positive timeout selects
// DefaultTimeout.
func NewGoogleProvider(endpoint string, timeout time.Duration) (*GoogleProvider, error) {
	if endpoint == "" {
		endpoint = DefaultGoogleEndpoint
	}
	if err := checkEndpoint(endpoint); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GoogleProvider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

func (g *GoogleProvider) Name() string { return "google" }

// Translate returns text rendered in targetLang with the source language
// auto-detected.
func (g *GoogleProvider) Translate(ctx context.Context, text, targetLang string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", targetLang)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("google: build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("google: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("google: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google: status %d", resp.StatusCode)
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse joins the translated segments of a gtx response:
//
//	[[["રમેશ","ramesh",null,null,10]],null,"en",...]
func parseGoogleResponse(body []byte) (string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("google: decode response: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("google: malformed response")
	}

	var segments [][]any
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return "", fmt.Errorf("google: decode segments: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			sb.WriteString(s)
		}
	}
	return sb.String(), nil
}

func checkEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}
	return nil
}
