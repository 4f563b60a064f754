// cmd/worker-manager/main_test.go
package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disc-workers/internal/common/config"
	"disc-workers/internal/common/logger"
	"disc-workers/internal/common/validation"
	"disc-workers/internal/profiles"
	"disc-workers/internal/profiles/profilestest"
)

func createTestDeps(t *testing.T, withIndex bool) deps {
	t.Helper()
	v, err := validation.NewDefaultValidator()
	require.NoError(t, err)

	d := deps{
		repository: new(profilestest.MockRepository),
		validator:  v,
		logger:     logger.NewTestLogger(t),
	}
	if withIndex {
		client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{"http://127.0.0.1:9200"}})
		require.NoError(t, err)
		d.index = profiles.NewSearchIndex(client, profiles.DefaultIndex)
	}
	return d
}

func TestBuildRegistrations(t *testing.T) {
	tests := []struct {
		name      string
		withIndex bool
		wantTypes []string
	}{
		{
			name: "without search index",
			wantTypes: []string{
				"disc-get-questions", "disc-calculate-profile", "disc-save-profile",
				"disc-get-user-profiles", "disc-generate-report", "disc-generate-gamification",
			},
		},
		{
			name:      "with search index",
			withIndex: true,
			wantTypes: []string{
				"disc-get-questions", "disc-calculate-profile", "disc-save-profile",
				"disc-get-user-profiles", "disc-generate-report", "disc-generate-gamification",
				"disc-team-distribution",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regs, err := buildRegistrations(&config.Config{}, createTestDeps(t, tt.withIndex))
			require.NoError(t, err)

			var got []string
			for _, reg := range regs {
				got = append(got, reg.TaskType)
				assert.NotNil(t, reg.Handler)
				assert.True(t, reg.Config.Enabled)
			}
			assert.Equal(t, tt.wantTypes, got)
		})
	}
}

func TestBuildRegistrations_WorkerConfig(t *testing.T) {
	cfg := &config.Config{Workers: map[string]config.WorkerConfig{
		"disc-save-profile": {Enabled: false, MaxJobsActive: 2, Timeout: 4000},
	}}

	regs, err := buildRegistrations(cfg, createTestDeps(t, false))
	require.NoError(t, err)

	for _, reg := range regs {
		if reg.TaskType == "disc-save-profile" {
			assert.False(t, reg.Config.Enabled)
			assert.Equal(t, 2, reg.Config.MaxJobsActive)
			return
		}
	}
	t.Fatal("save profile registration missing")
}

func TestServer_Endpoints(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		readyErr   error
		wantStatus int
		wantState  string
	}{
		{name: "health", path: "/health", wantStatus: http.StatusOK, wantState: "healthy"},
		{name: "ready", path: "/ready", wantStatus: http.StatusOK, wantState: "ready"},
		{name: "not ready", path: "/ready", readyErr: stderrors.New("broker unavailable"), wantStatus: http.StatusServiceUnavailable, wantState: "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(":0", func(context.Context) error { return tt.readyErr })

			rec := httptest.NewRecorder()
			server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body["status"])
			assert.NotEmpty(t, body["time"])
			if tt.readyErr != nil {
				assert.Equal(t, tt.readyErr.Error(), body["error"])
			}
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	server := newServer(":0", func(context.Context) error { return nil })

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
