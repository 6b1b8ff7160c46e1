package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studyTrackerAPI/config"
	"studyTrackerAPI/internal/auth"
	"studyTrackerAPI/middleware"
	"studyTrackerAPI/services"

	"github.com/stretchr/testify/assert"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func testApp() *app {
	return &app{
		cfg: &config.Config{
			FrontendURLs: []string{"http://localhost:5173"},
			MetricsUser:  "prom",
			MetricsPass:  "secret",
		},
		tokens:  auth.NewTokenIssuer("test-secret", time.Hour),
		limiter: middleware.NewRateLimiter(100, 100),
		hub:     services.NewPresenceHub(),
		db:      okPinger{},
		achieve: services.NewAchievementService(nil, time.UTC),
	}
}

func TestRoutes(t *testing.T) {
	h := testApp().routes()

	cases := []struct {
		method, path string
		code         int
	}{
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/achievements/catalog", http.StatusOK},
		{http.MethodGet, "/api/achievements", http.StatusUnauthorized},
		{http.MethodGet, "/api/tasks/today", http.StatusUnauthorized},
		{http.MethodPost, "/api/plans", http.StatusUnauthorized},
		{http.MethodGet, "/api/statistics/heatmap", http.StatusUnauthorized},
		{http.MethodGet, "/api/leaderboard/weekly", http.StatusUnauthorized},
		{http.MethodGet, "/api/online-users/ws", http.StatusUnauthorized},
		{http.MethodGet, "/metrics", http.StatusUnauthorized},
		{http.MethodPost, "/api/auth/logout", http.StatusOK},
		{http.MethodGet, "/api/nope", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}
