// internal/workers/disc/save-profile/handler_test.go
package saveprofile

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"disc-workers/internal/common/config"
	"disc-workers/internal/common/database"
	apperrors "disc-workers/internal/common/errors"
	"disc-workers/internal/common/logger"
	"disc-workers/internal/common/validation"
	"disc-workers/internal/disc"
	"disc-workers/internal/models"
	"disc-workers/internal/profiles"
	"disc-workers/internal/profiles/profilestest"
)

// ==========================
// Test Helper Functions
// ==========================

var savedAt = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func createTestConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       5 * time.Second,
		IndexTimeout:  time.Second,
	}
}

func createTestHandler(t *testing.T, repo models.ProfileRepository, index models.ProfileIndex) *Handler {
	t.Helper()
	v, err := validation.NewDefaultValidator()
	require.NoError(t, err)
	h, err := NewHandler(HandlerOptions{
		CustomConfig: createTestConfig(),
		Repository:   repo,
		Index:        index,
		Validator:    v,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func createTestProfile(t *testing.T, id string) *disc.Profile {
	t.Helper()
	engine, err := disc.NewEngine(
		disc.WithClock(func() time.Time { return savedAt.Add(-time.Minute) }),
		disc.WithIDGenerator(func() string { return id }),
	)
	require.NoError(t, err)
	profile, err := engine.CalculateProfile([]disc.Answer{
		{QuestionID: "q1", SelectedOption: 0},
		{QuestionID: "q2", SelectedOption: 1},
	})
	require.NoError(t, err)
	return profile
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "disc-assessment",
		ElementId:          "Activity_SaveProfile",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func errorCode(err error) apperrors.ErrorCode {
	return apperrors.FromDomain(err).Code
}

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr string
	}{
		{
			name:    "missing repository",
			opts:    HandlerOptions{CustomConfig: createTestConfig()},
			wantErr: "repository is required",
		},
		{
			name: "invalid index timeout",
			opts: HandlerOptions{
				CustomConfig: &Config{MaxJobsActive: 1, Timeout: time.Second},
				Repository:   new(profilestest.MockRepository),
			},
			wantErr: "index_timeout",
		},
		{
			name: "defaults without custom config",
			opts: HandlerOptions{
				AppConfig:  &config.Config{},
				Repository: new(profilestest.MockRepository),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandler(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 30*time.Second, h.config.Timeout)
			assert.Equal(t, DefaultConfig().IndexTimeout, h.config.IndexTimeout)
		})
	}
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_SavesAndIndexes(t *testing.T) {
	repo := new(profilestest.MockRepository)
	index := new(profilestest.MockIndex)
	h := createTestHandler(t, repo, index)

	profile := createTestProfile(t, "p-1")
	record := models.NewProfileRecord(profile, "user-1", savedAt)
	repo.On("SaveProfile", mock.Anything, profile, "user-1").Return(record, nil).Once()
	index.On("IndexProfile", mock.Anything, record).Return(nil).Once()

	out, err := h.Execute(context.Background(), &Input{UserID: "user-1", Profile: profile})
	require.NoError(t, err)

	assert.Equal(t, &Output{ProfileID: "p-1", SavedAt: savedAt, Indexed: true}, out)
	repo.AssertExpectations(t)
	index.AssertExpectations(t)
}

func TestHandler_Execute_IndexFailureIsNotFatal(t *testing.T) {
	repo := new(profilestest.MockRepository)
	index := new(profilestest.MockIndex)
	h := createTestHandler(t, repo, index)

	profile := createTestProfile(t, "p-1")
	record := models.NewProfileRecord(profile, "user-1", savedAt)
	repo.On("SaveProfile", mock.Anything, profile, "user-1").Return(record, nil).Once()
	index.On("IndexProfile", mock.Anything, record).
		Return(apperrors.NewProfileIndexFailedError(stderrors.New("cluster red"))).Once()

	out, err := h.Execute(context.Background(), &Input{UserID: "user-1", Profile: profile})
	require.NoError(t, err)
	assert.False(t, out.Indexed)
	assert.Equal(t, "p-1", out.ProfileID)
}

func TestHandler_Execute_WithoutIndex(t *testing.T) {
	repo := new(profilestest.MockRepository)
	h := createTestHandler(t, repo, nil)

	profile := createTestProfile(t, "p-1")
	repo.On("SaveProfile", mock.Anything, profile, "user-1").
		Return(models.NewProfileRecord(profile, "user-1", savedAt), nil).Once()

	out, err := h.Execute(context.Background(), &Input{UserID: "user-1", Profile: profile})
	require.NoError(t, err)
	assert.False(t, out.Indexed)
}

func TestHandler_Execute_Errors(t *testing.T) {
	saveErr := apperrors.NewProfileSaveFailedError(stderrors.New("connection refused"))

	tests := []struct {
		name     string
		input    *Input
		saveErr  error
		wantCode apperrors.ErrorCode
	}{
		{name: "nil input", input: nil, wantCode: apperrors.ErrCodeInputValidationFailed},
		{name: "missing user", input: &Input{Profile: &disc.Profile{ID: "p"}}, wantCode: apperrors.ErrCodeInputValidationFailed},
		{name: "missing profile", input: &Input{UserID: "user-1"}, wantCode: apperrors.ErrCodeInputValidationFailed},
		{name: "store failure", input: &Input{UserID: "user-1", Profile: &disc.Profile{ID: "p"}}, saveErr: saveErr, wantCode: apperrors.ErrCodeProfileSaveFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(profilestest.MockRepository)
			index := new(profilestest.MockIndex)
			if tt.saveErr != nil {
				repo.On("SaveProfile", mock.Anything, tt.input.Profile, tt.input.UserID).Return(nil, tt.saveErr).Once()
			}
			h := createTestHandler(t, repo, index)

			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errorCode(err))
			index.AssertNotCalled(t, "IndexProfile", mock.Anything, mock.Anything)
		})
	}
}

// ==========================
// Store Integration Tests
// ==========================

func TestHandler_Execute_SQLiteStore(t *testing.T) {
	client, err := database.NewSQLite(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	store, err := profiles.NewSQLStore(client.GetDB(), config.DriverSQLite,
		profiles.WithStoreClock(func() time.Time { return savedAt }))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	h := createTestHandler(t, store, nil)
	profile := createTestProfile(t, "p-sqlite")

	for i := 0; i < 2; i++ {
		out, err := h.Execute(context.Background(), &Input{UserID: "user-1", Profile: profile})
		require.NoError(t, err)
		assert.Equal(t, "p-sqlite", out.ProfileID)
	}

	count, err := store.CountUserProfiles(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "redelivered save must not duplicate the profile")
}

func TestHandler_Execute_ForeignProfileIDIsNotIndexed(t *testing.T) {
	client, err := database.NewSQLite(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	store, err := profiles.NewSQLStore(client.GetDB(), config.DriverSQLite,
		profiles.WithStoreClock(func() time.Time { return savedAt }))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	index := new(profilestest.MockIndex)
	h := createTestHandler(t, store, index)
	profile := createTestProfile(t, "p-shared")

	index.On("IndexProfile", mock.Anything, mock.MatchedBy(func(r *models.ProfileRecord) bool {
		return r.UserID == "alice"
	})).Return(nil).Once()

	_, err = h.Execute(context.Background(), &Input{UserID: "alice", Profile: profile})
	require.NoError(t, err)

	out, err := h.Execute(context.Background(), &Input{UserID: "bob", Profile: profile})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, apperrors.ErrCodeInputValidationFailed, errorCode(err))
	index.AssertExpectations(t)
}

// ==========================
// Job Processing Tests
// ==========================

func TestHandler_ProcessJob(t *testing.T) {
	repo := new(profilestest.MockRepository)
	h := createTestHandler(t, repo, nil)

	profile := createTestProfile(t, "p-job")
	repo.On("SaveProfile", mock.Anything, mock.MatchedBy(func(p *disc.Profile) bool {
		return p.ID == "p-job" && p.PrimaryStyle == profile.PrimaryStyle
	}), "user-7").Return(models.NewProfileRecord(profile, "user-7", savedAt), nil).Once()

	job := createMockJob(1, map[string]interface{}{"userId": "user-7", "profile": profile})
	out, err := h.runner.Process(context.Background(), job, h.execute)
	require.NoError(t, err)
	assert.Equal(t, "p-job", out.(*Output).ProfileID)
	repo.AssertExpectations(t)

	bad := createMockJob(2, map[string]interface{}{
		"userId":  "user-7",
		"profile": map[string]interface{}{"id": "p", "primaryStyle": "X"},
	})
	_, err = h.runner.Process(context.Background(), bad, h.execute)
	assert.Equal(t, apperrors.ErrCodeInputValidationFailed, errorCode(err))
}
