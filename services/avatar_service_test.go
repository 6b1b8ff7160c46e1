package services

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvatarService_URL(t *testing.T) {
	svc, err := NewAvatarService("https://api.dicebear.com/7.x/", 8)
	require.NoError(t, err)

	u, err := svc.URL(AvatarRequest{Style: "initials", Seed: "alice", BackgroundColor: "#ffaa00", Chars: "2"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.dicebear.com/7.x/initials/svg?backgroundColor=ffaa00&chars=2&seed=alice", u)

	u, err = svc.URL(AvatarRequest{Style: "pixel-art", Seed: "alice", Chars: "2"})
	require.NoError(t, err)
	assert.NotContains(t, u, "chars=")

	_, err = svc.URL(AvatarRequest{Style: "../admin", Seed: "x"})
	assert.ErrorIs(t, err, ErrInvalidAvatarStyle)

	_, err = svc.URL(AvatarRequest{Style: "micah", Seed: " "})
	assert.ErrorIs(t, err, ErrAvatarSeedRequired)
}

func TestAvatarService_GenerateCaches(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/lorelei/svg", r.URL.Path)
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte("<svg></svg>"))
	}))
	defer srv.Close()

	svc, err := NewAvatarService(srv.URL, 8)
	require.NoError(t, err)

	req := AvatarRequest{Style: "lorelei", Seed: "bob"}
	first, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	require.True(t, strings.HasPrefix(first, "data:image/svg+xml;base64,"))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(first, "data:image/svg+xml;base64,"))
	require.NoError(t, err)
	assert.Equal(t, "<svg></svg>", string(decoded))
}

func TestAvatarService_GenerateUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown style", http.StatusBadRequest)
	}))
	defer srv.Close()

	svc, err := NewAvatarService(srv.URL, 8)
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), AvatarRequest{Style: "nope", Seed: "bob"})
	assert.Error(t, err)
}
