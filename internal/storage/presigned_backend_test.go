package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"medtour-backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPresignedBackend(t *testing.T, handler http.HandlerFunc) *PresignedObjectBackend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend, err := NewPresignedObjectBackend(config.S3Config{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "assets",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	return backend
}

func TestPresignedObjectBackend_EnsureBucketRetriesAfterFailure(t *testing.T) {
	var calls int32
	backend := newTestPresignedBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	require.Error(t, backend.ensureBucket(context.Background()))
	assert.False(t, backend.ready)

	require.NoError(t, backend.ensureBucket(context.Background()))
	assert.True(t, backend.ready)

	// Done once; later calls do not hit the server.
	require.NoError(t, backend.ensureBucket(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestPresignedObjectBackend_EnsureBucketIgnoresCallerCancel(t *testing.T) {
	backend := newTestPresignedBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, backend.ensureBucket(ctx))
	assert.True(t, backend.ready)
}

func TestPresignedObjectBackend_EnsureBucketCreatesMissing(t *testing.T) {
	var created int32
	backend := newTestPresignedBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			atomic.AddInt32(&created, 1)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	require.NoError(t, backend.ensureBucket(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&created))
}

func TestPresignedObjectBackend_URLs(t *testing.T) {
	backend, err := NewPresignedObjectBackend(config.S3Config{
		Endpoint:      "s3.local:9000",
		AccessKey:     "access",
		SecretKey:     "secret",
		Bucket:        "assets",
		PublicBaseURL: "https://cdn.example.com/assets/",
	})
	require.NoError(t, err)

	url := backend.URLFor("doctor/a b.jpg")
	assert.Equal(t, "https://cdn.example.com/assets/doctor/a b.jpg", url)

	key, ok := backend.keyFromURL("https://cdn.example.com/assets/doctor/a%20b.jpg")
	assert.True(t, ok)
	assert.Equal(t, "doctor/a b.jpg", key)

	_, ok = backend.keyFromURL("https://elsewhere.example.com/doctor/a.jpg")
	assert.False(t, ok)
}
