package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/siwire/siwire/errs"
)

func TestClient_FetchBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<siwire/>"))
	}))
	defer srv.Close()

	c := NewClient()
	data, err := c.FetchBytes(context.Background(), srv.URL+"/tables.xml")
	require.NoError(t, err)
	require.Equal(t, []byte("<siwire/>"), data)
}

func TestClient_FetchToFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0x70, 0x70, 0x05, 0xE3, 0x00, 0x14, 0x55, 0x27})
	}))
	defer srv.Close()

	path := t.TempDir() + "/tdt.bin"
	c := NewClient()
	require.NoError(t, c.Fetch(context.Background(), srv.URL+"/tdt.bin", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 8)
}

func TestClient_NotFoundNeverRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(WithDefaultRetryPolicy(RetryPolicy{Attempts: 5, Interval: time.Millisecond}))
	_, err := c.FetchBytes(context.Background(), srv.URL+"/missing.xml")
	require.ErrorIs(t, err, errs.ErrResourceNotFound)
	require.Equal(t, int32(1), hits.Load())
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(WithDefaultRetryPolicy(RetryPolicy{Attempts: 3, Interval: time.Millisecond}))
	data, err := c.FetchBytes(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, []byte("ok"), data)
	require.Equal(t, int32(3), hits.Load())
}

func TestClient_PerHostRetryPolicy(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	c := NewClient(
		WithDefaultRetryPolicy(RetryPolicy{Attempts: 5, Interval: time.Millisecond}),
		WithRetryPolicy(u.Hostname(), RetryPolicy{Attempts: 2, Interval: time.Millisecond}),
	)
	_, err = c.FetchBytes(context.Background(), srv.URL)
	require.Error(t, err)
	require.Equal(t, int32(2), hits.Load())
}

func TestClient_HonorsContextBetweenAttempts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(WithDefaultRetryPolicy(RetryPolicy{Attempts: 3, Interval: time.Hour}))
	_, err := c.FetchBytes(ctx, srv.URL)
	require.ErrorIs(t, err, context.Canceled)
}
