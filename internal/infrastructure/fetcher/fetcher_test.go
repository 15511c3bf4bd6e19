package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFetcher() *Fetcher {
	return NewFetcher(Options{Timeout: 2 * time.Second, Attempts: 3, Delay: time.Millisecond, UserAgent: "ico256-test"})
}

func TestFetcher_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ico256-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	got, err := testFetcher().Fetch(context.Background(), srv.URL+"/assets/logo.png", 100)
	require.NoError(t, err)
	assert.Equal(t, "logo.png", got.Name)
	assert.Equal(t, "image/png", got.MediaType)
	assert.Equal(t, []byte("png-bytes"), got.Data)
	assert.Equal(t, srv.URL+"/assets/logo.png", got.URL)
}

func TestFetcher_NameFromDispositionAndType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/named" {
			w.Header().Set("Content-Disposition", `attachment; filename="brand mark.webp"`)
		}
		w.Header().Set("Content-Type", "image/webp")
		_, _ = w.Write([]byte("RIFF"))
	}))
	defer srv.Close()

	got, err := testFetcher().Fetch(context.Background(), srv.URL+"/named", 100)
	require.NoError(t, err)
	assert.Equal(t, "brand mark.webp", got.Name)

	got, err = testFetcher().Fetch(context.Background(), srv.URL+"/download", 100)
	require.NoError(t, err)
	assert.Equal(t, "download.webp", got.Name)
}

func TestFetcher_ReadsOnePastLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(make([]byte, 1000))
	}))
	defer srv.Close()

	got, err := testFetcher().Fetch(context.Background(), srv.URL+"/big.png", 10)
	require.NoError(t, err)
	assert.Len(t, got.Data, 11)
}

func TestFetcher_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	got, err := testFetcher().Fetch(context.Background(), srv.URL+"/flaky.png", 100)
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), got.Data)
	assert.Equal(t, int32(3), hits.Load())
}

func TestFetcher_GivesUpAfterAttempts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testFetcher().Fetch(context.Background(), srv.URL+"/down.png", 100)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
	assert.Equal(t, int32(3), hits.Load())
}

func TestFetcher_DoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testFetcher().Fetch(context.Background(), srv.URL+"/missing.png", 100)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetcher_RejectsSchemes(t *testing.T) {
	_, err := testFetcher().Fetch(context.Background(), "ftp://example.com/a.png", 100)
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(errors.New("connection reset")))
	assert.True(t, isRetryable(&StatusError{Code: 500}))
	assert.False(t, isRetryable(&StatusError{Code: 403}))
	assert.False(t, isRetryable(context.Canceled))
}
