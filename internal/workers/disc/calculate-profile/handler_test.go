// internal/workers/disc/calculate-profile/handler_test.go
package calculateprofile

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disc-workers/internal/common/config"
	apperrors "disc-workers/internal/common/errors"
	"disc-workers/internal/common/logger"
	"disc-workers/internal/common/validation"
	"disc-workers/internal/disc"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Enabled:        true,
		MaxJobsActive:  5,
		Timeout:        5 * time.Second,
		FeaturedTraits: []disc.Trait{disc.TraitD, disc.TraitI},
	}
}

func createTestHandler(t *testing.T, cfg *Config) *Handler {
	t.Helper()
	v, err := validation.NewDefaultValidator()
	require.NoError(t, err)
	h, err := NewHandler(HandlerOptions{
		CustomConfig: cfg,
		Validator:    v,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "disc-assessment",
		ElementId:          "Activity_CalculateProfile",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func createAnswers(options ...int) []disc.Answer {
	answers := make([]disc.Answer, 0, len(options))
	for i, opt := range options {
		answers = append(answers, disc.Answer{QuestionID: disc.Questions()[i].ID, SelectedOption: opt})
	}
	return answers
}

func errorCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
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
		{name: "valid configuration", opts: HandlerOptions{CustomConfig: createTestConfig()}},
		{name: "defaults from app config", opts: HandlerOptions{AppConfig: &config.Config{}}},
		{
			name:    "invalid timeout",
			opts:    HandlerOptions{CustomConfig: &Config{MaxJobsActive: 1, Timeout: -time.Second}},
			wantErr: "timeout must be positive",
		},
		{
			name:    "invalid max jobs active",
			opts:    HandlerOptions{CustomConfig: &Config{Timeout: time.Second}},
			wantErr: "max_jobs_active must be positive",
		},
		{
			name:    "unknown featured trait",
			opts:    HandlerOptions{CustomConfig: &Config{MaxJobsActive: 1, Timeout: time.Second, FeaturedTraits: []disc.Trait{"X"}}},
			wantErr: "featured_traits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandler(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, h.engine)
		})
	}
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	app := &config.Config{
		Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: false, MaxJobsActive: 7, Timeout: 2500},
		},
		Assessment: config.AssessmentConfig{FeaturedTraits: []string{"s", "C"}, RequireComplete: true},
	}

	cfg := createConfigFromAppConfig(app, nil)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 7, cfg.MaxJobsActive)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, []disc.Trait{disc.TraitS, disc.TraitC}, cfg.FeaturedTraits)
	assert.True(t, cfg.RequireComplete)

	custom := createTestConfig()
	assert.Same(t, custom, createConfigFromAppConfig(app, custom))
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_Fixtures(t *testing.T) {
	tests := []struct {
		name          string
		answers       []disc.Answer
		wantScores    disc.Scores
		wantPrimary   disc.Trait
		wantSecondary disc.Trait
	}{
		{"all first options", createAnswers(0, 0, 0, 0, 0, 0), disc.Scores{D: 40, I: 30, S: 20, C: 10}, disc.TraitD, disc.TraitI},
		{"all last options", createAnswers(3, 3, 3, 3, 3, 3), disc.Scores{D: 10, I: 20, S: 30, C: 40}, disc.TraitC, disc.TraitS},
		{"mixed", createAnswers(0, 1, 2, 3, 0, 1), disc.Scores{D: 28, I: 28, S: 22, C: 22}, disc.TraitD, disc.TraitI},
	}

	h := createTestHandler(t, createTestConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &Input{UserID: "user-1", Answers: tt.answers})
			require.NoError(t, err)

			p := out.Profile
			assert.Equal(t, tt.wantScores, p.Scores)
			assert.Equal(t, tt.wantPrimary, p.PrimaryStyle)
			assert.Equal(t, tt.wantSecondary, p.SecondaryStyle)
			assert.Empty(t, p.UserID)
			assert.NotEmpty(t, p.ID)
			assert.Len(t, p.Insights, 2)
			assert.NotEmpty(t, p.Recommendations)
		})
	}
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		input    *Input
		wantCode apperrors.ErrorCode
	}{
		{"nil input", createTestConfig(), nil, apperrors.ErrCodeInputValidationFailed},
		{"no answers", createTestConfig(), &Input{}, apperrors.ErrCodeEmptyAssessment},
		{"option out of range", createTestConfig(), &Input{Answers: []disc.Answer{{QuestionID: "q1", SelectedOption: 4}}}, apperrors.ErrCodeInvalidAnswer},
		{"unknown question", createTestConfig(), &Input{Answers: []disc.Answer{{QuestionID: "q99", SelectedOption: 0}}}, apperrors.ErrCodeInvalidAnswer},
		{
			name: "incomplete when completeness required",
			cfg: func() *Config {
				c := createTestConfig()
				c.RequireComplete = true
				return c
			}(),
			input:    &Input{Answers: createAnswers(0, 1)},
			wantCode: apperrors.ErrCodeInvalidAnswer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, tt.cfg)
			out, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.Equal(t, tt.wantCode, errorCode(t, err))
		})
	}
}

func TestHandler_Execute_NotRetryable(t *testing.T) {
	h := createTestHandler(t, createTestConfig())
	_, err := h.Execute(context.Background(), &Input{})

	stdErr := apperrors.FromDomain(err)
	assert.False(t, stdErr.Retryable)
	assert.True(t, stderrors.Is(err, disc.ErrEmptyAssessment))
}

// ==========================
// Job variable path
// ==========================

func TestHandler_ProcessJob(t *testing.T) {
	h := createTestHandler(t, createTestConfig())

	job := createMockJob(1, map[string]interface{}{
		"userId": "user-1",
		"answers": []map[string]interface{}{
			{"questionId": "q1", "selectedOption": 0},
			{"questionId": "q2", "selectedOption": 0},
		},
	})
	out, err := h.runner.Process(context.Background(), job, h.execute)
	require.NoError(t, err)
	assert.Equal(t, disc.TraitD, out.(*Output).Profile.PrimaryStyle)

}

func TestHandler_ProcessJob_Errors(t *testing.T) {
	tests := []struct {
		name      string
		variables map[string]interface{}
		wantCode  apperrors.ErrorCode
	}{
		{
			name:      "option index out of range",
			variables: map[string]interface{}{"answers": []map[string]interface{}{{"questionId": "q1", "selectedOption": 4}}},
			wantCode:  apperrors.ErrCodeInvalidAnswer,
		},
		{
			name:      "negative option index",
			variables: map[string]interface{}{"answers": []map[string]interface{}{{"questionId": "q1", "selectedOption": -1}}},
			wantCode:  apperrors.ErrCodeInvalidAnswer,
		},
		{
			name:      "unknown question",
			variables: map[string]interface{}{"answers": []map[string]interface{}{{"questionId": "", "selectedOption": 0}}},
			wantCode:  apperrors.ErrCodeInvalidAnswer,
		},
		{
			name:      "empty answers",
			variables: map[string]interface{}{"userId": "user-1", "answers": []map[string]interface{}{}},
			wantCode:  apperrors.ErrCodeEmptyAssessment,
		},
		{
			name:      "answers missing",
			variables: map[string]interface{}{"userId": "user-1"},
			wantCode:  apperrors.ErrCodeInputValidationFailed,
		},
		{
			name:      "option is not a number",
			variables: map[string]interface{}{"answers": []map[string]interface{}{{"questionId": "q1", "selectedOption": "two"}}},
			wantCode:  apperrors.ErrCodeInputValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, createTestConfig())

			_, err := h.runner.Process(context.Background(), createMockJob(2, tt.variables), h.execute)
			require.Error(t, err)
			stdErr := apperrors.FromDomain(err)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.False(t, stdErr.Retryable)
		})
	}
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkHandler_Execute(b *testing.B) {
	h, err := NewHandler(HandlerOptions{CustomConfig: createTestConfig(), Logger: logger.NewNoOpLogger()})
	if err != nil {
		b.Fatal(err)
	}
	input := &Input{Answers: createAnswers(0, 1, 2, 3, 0, 1)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := h.Execute(context.Background(), input); err != nil {
			b.Fatal(err)
		}
	}
}
