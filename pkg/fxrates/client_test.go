package fxrates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbhatti-ai/exportguard-ai/internal/resilience"
)

func TestLatest_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/observations/FXUSDCAD/json", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("recent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"observations":[{"d":"2026-08-28","FXUSDCAD":{"v":"1.3652"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	r, err := c.Latest(context.Background(), "USD", "CAD")
	require.NoError(t, err)

	assert.InDelta(t, 1.3652, r.Value, 0.0001)
	assert.Equal(t, "2026-08-28", r.Date)
	assert.Equal(t, "FXUSDCAD", r.Series)
	assert.Equal(t, "Bank of Canada (Valet)", r.Source)
}

func TestLatest_InvalidCurrency(t *testing.T) {
	c := NewClient()

	_, err := c.Latest(context.Background(), "US", "CAD")
	assert.Error(t, err)

	_, err = c.Latest(context.Background(), "DOLLARS", "CAD")
	assert.Error(t, err)
}

func TestLatest_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "series not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Latest(context.Background(), "XXX", "CAD")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestLatest_ServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Latest(context.Background(), "USD", "CAD")
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestLatest_NotFoundIsNotTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "series not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Latest(context.Background(), "USD", "CAD")
	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
}

func TestLatest_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Latest(context.Background(), "USD", "CAD")
	assert.Error(t, err)
}

func TestLatest_NoObservations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations":[]}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Latest(context.Background(), "USD", "CAD")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no observations")
}

func TestLatest_MissingSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations":[{"d":"2026-08-28"}]}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Latest(context.Background(), "USD", "CAD")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing series")
}

func TestLatest_NonNumericRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations":[{"d":"2026-08-28","FXUSDCAD":{"v":"n/a"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Latest(context.Background(), "USD", "CAD")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "non-numeric rate")
}

func TestLatest_NonPositiveRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations":[{"d":"2026-08-28","FXUSDCAD":{"v":"0"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Latest(context.Background(), "USD", "CAD")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "non-positive rate")
}

func TestLatest_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"observations":[{"d":"2026-08-28","FXUSDCAD":{"v":"1.36"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Latest(ctx, "USD", "CAD")
	assert.Error(t, err)
}
