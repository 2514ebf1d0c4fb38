package translit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleProvider_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "gtx", q.Get("client"))
		assert.Equal(t, "auto", q.Get("sl"))
		assert.Equal(t, "gu", q.Get("tl"))
		assert.Equal(t, "t", q.Get("dt"))
		assert.Equal(t, "ramesh patel", q.Get("q"))
		_, _ = w.Write([]byte(`[[["રમેશ ","ramesh ",null,null,10],["પટેલ","patel",null,null,10]],null,"en"]`))
	}))
	defer srv.Close()

	p, err := NewGoogleProvider(srv.URL, time.Second)
	require.NoError(t, err)

	out, err := p.Translate(context.Background(), "ramesh patel", "gu")
	require.NoError(t, err)
	assert.Equal(t, "રમેશ પટેલ", out)
}

func TestGoogleProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `[]`},
		{"not json", http.StatusOK, `<html>`},
		{"empty array", http.StatusOK, `[]`},
		{"segments not array", http.StatusOK, `["x"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p, err := NewGoogleProvider(srv.URL, time.Second)
			require.NoError(t, err)

			_, err = p.Translate(context.Background(), "ramesh", "gu")
			assert.Error(t, err)
		})
	}
}

func TestNewGoogleProvider_Endpoint(t *testing.T) {
	p, err := NewGoogleProvider("", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultGoogleEndpoint, p.endpoint)
	assert.Equal(t, DefaultTimeout, p.client.Timeout)

	_, err = NewGoogleProvider("ftp://example.com", 0)
	assert.Error(t, err)
	_, err = NewGoogleProvider("http://", 0)
	assert.Error(t, err)
}

func TestLibreProvider_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/translate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req libreRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ramesh", req.Q)
		assert.Equal(t, "auto", req.Source)
		assert.Equal(t, "gu", req.Target)
		assert.Equal(t, "text", req.Format)
		assert.Equal(t, "secret", req.APIKey)

		_ = json.NewEncoder(w).Encode(libreResponse{TranslatedText: "રમેશ"})
	}))
	defer srv.Close()

	p, err := NewLibreProvider(srv.URL+"/", "secret", time.Second)
	require.NoError(t, err)

	out, err := p.Translate(context.Background(), "ramesh", "gu")
	require.NoError(t, err)
	assert.Equal(t, "રમેશ", out)
}

func TestLibreProvider_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(libreResponse{Error: "gu is not supported"})
	}))
	defer srv.Close()

	p, err := NewLibreProvider(srv.URL+"/translate", "", time.Second)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/translate", p.endpoint)

	_, err = p.Translate(context.Background(), "ramesh", "gu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gu is not supported")
}

func TestNewLibreProvider_RequiresURL(t *testing.T) {
	_, err := NewLibreProvider("", "", 0)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAdapter_FallsBackAcrossHTTPProviders(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	libre := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(libreResponse{TranslatedText: "રમેશ"})
	}))
	defer libre.Close()

	a := New(Options{
		Enabled:        true,
		GoogleEndpoint: down.URL,
		LibreURL:       libre.URL,
		Timeout:        time.Second,
	})

	res := a.NormalizeResult(context.Background(), "ramesh")
	assert.Equal(t, "રમેશ", res.Text)
	assert.Equal(t, SourceSecondary, res.Source)
	assert.True(t, a.Available())
}

func TestRateLimited(t *testing.T) {
	p := &fakeProvider{name: "p", out: "ok"}

	assert.Same(t, Provider(p), RateLimited(p, 0, 1))

	limited := RateLimited(p, 0.001, 1)
	assert.Equal(t, "p", limited.Name())

	out, err := limited.Translate(context.Background(), "a", "gu")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	// The burst is spent; the next call waits far longer than ctx allows.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = limited.Translate(ctx, "b", "gu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
	assert.Equal(t, int32(1), p.calls.Load())
}
