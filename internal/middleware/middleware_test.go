package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/auth"
)

type emptyMessage struct{}

// captureViewer runs interceptor with a request carrying authHeader and
// returns the viewer the next handler saw.
func captureViewer(t *testing.T, interceptor connect.UnaryInterceptorFunc, authHeader string) (Viewer, bool) {
	t.Helper()

	var viewer Viewer
	var found bool
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		viewer, found = GetViewer(ctx)
		return connect.NewResponse(&emptyMessage{}), nil
	}

	req := connect.NewRequest(&emptyMessage{})
	if authHeader != "" {
		req.Header().Set("Authorization", authHeader)
	}
	_, err := interceptor(next)(context.Background(), req)
	require.NoError(t, err)
	return viewer, found
}

func TestOptionalViewer(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	interceptor := OptionalViewer(jwtManager)

	token, err := jwtManager.Generate("group-1", "alice")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		viewer, ok := captureViewer(t, interceptor, "Bearer "+token)
		assert.True(t, ok)
		assert.Equal(t, Viewer{GroupID: "group-1", ParticipantID: "alice"}, viewer)
	})

	t.Run("no token", func(t *testing.T) {
		_, ok := captureViewer(t, interceptor, "")
		assert.False(t, ok)
	})

	t.Run("invalid token is ignored", func(t *testing.T) {
		_, ok := captureViewer(t, interceptor, "Bearer garbage")
		assert.False(t, ok)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		_, ok := captureViewer(t, interceptor, "Basic "+token)
		assert.False(t, ok)
	})
}

func TestViewerFor(t *testing.T) {
	ctx := WithViewer(context.Background(), Viewer{GroupID: "group-1", ParticipantID: "alice"})

	assert.Equal(t, "alice", ViewerFor(ctx, "group-1"))
	assert.Equal(t, "", ViewerFor(ctx, "group-2"))
	assert.Equal(t, "", ViewerFor(context.Background(), "group-1"))
}

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	interceptor := MetricsInterceptor(m)

	ok := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&emptyMessage{}), nil
	}
	notFound := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("missing"))
	}

	for range 2 {
		_, err := interceptor(ok)(context.Background(), connect.NewRequest(&emptyMessage{}))
		require.NoError(t, err)
	}
	_, err := interceptor(notFound)(context.Background(), connect.NewRequest(&emptyMessage{}))
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("", "not_found")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}
