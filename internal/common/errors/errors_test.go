// internal/common/errors/errors_test.go
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"disc-workers/internal/disc"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMockJob(retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:     42,
		Type:    "disc-save-profile",
		Retries: retries,
	}}
}

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedCode  ErrorCode
		retryable     bool
		expectedCause error
	}{
		{"empty assessment", &disc.EmptyAssessmentError{}, ErrCodeEmptyAssessment, false, disc.ErrEmptyAssessment},
		{"invalid answer", &disc.InvalidAnswerError{QuestionID: "q1", OptionIndex: 9, Reason: "option index out of range"}, ErrCodeInvalidAnswer, false, disc.ErrInvalidAnswer},
		{"unknown style", fmt.Errorf("lookup: %w", &disc.UnknownStyleError{Trait: "X"}), ErrCodeUnknownStyle, false, disc.ErrUnknownStyle},
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout, true, context.DeadlineExceeded},
		{"anything else", stderrors.New("boom"), ErrCodeInternal, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdErr := FromDomain(tt.err)

			assert.Equal(t, tt.expectedCode, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
			assert.Equal(t, tt.err.Error(), stdErr.Details)
			if tt.expectedCause != nil {
				assert.True(t, stderrors.Is(stdErr, tt.expectedCause))
			}
		})
	}
}

func TestFromDomain_PassesStandardErrorThrough(t *testing.T) {
	original := NewProfileNotFoundError("user-1")
	wrapped := fmt.Errorf("generate report: %w", original)

	assert.Same(t, original, FromDomain(wrapped))
}

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name            string
		stdErr          *StandardError
		expectedRetries int
	}{
		{"retryable save failure", NewProfileSaveFailedError(stderrors.New("conn reset")), 3},
		{"timeout", NewQueryTimeoutError("user_profiles"), 2},
		{"business error", NewInputValidationError("answers is required"), 0},
		{"not found", NewProfileNotFoundError("u"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.stdErr)

			assert.Equal(t, string(tt.stdErr.Code), bpmnErr.Code)
			assert.Equal(t, tt.expectedRetries, bpmnErr.Retries)

			vars := bpmnErr.ToErrorVariables()
			assert.Equal(t, bpmnErr.Code, vars["errorCode"])
			assert.Equal(t, string(tt.stdErr.Code), vars["originalErrorCode"])
			assert.Contains(t, vars, "timestamp")
		})
	}
}

func TestConvertToBPMNError_NonRetryableOverridesCode(t *testing.T) {
	stdErr := NewProfileSaveFailedError(stderrors.New("x"))
	stdErr.Retryable = false

	assert.Equal(t, 0, ConvertToBPMNError(stdErr).Retries)
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name            string
		jobRetries      int32
		stdErr          *StandardError
		expectedAction  JobAction
		expectedRetries int32
	}{
		{"non retryable throws", 3, NewInputValidationError("bad"), ActionThrow, 0},
		{"retryable with budget fails", 3, NewProfileSaveFailedError(stderrors.New("x")), ActionFail, 2},
		{"capped by code retries", 10, NewSearchTimeoutError("distribution"), ActionFail, 2},
		{"last retry throws", 1, NewProfileSaveFailedError(stderrors.New("x")), ActionThrow, 0},
		{"generic timeout fails", 3, FromDomain(context.DeadlineExceeded), ActionFail, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, retries := Decide(createMockJob(tt.jobRetries), tt.stdErr)

			assert.Equal(t, tt.expectedAction, action)
			assert.Equal(t, tt.expectedRetries, retries)
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeEmptyAssessment:       "ASSESSMENT",
		ErrCodeInvalidAnswer:         "ASSESSMENT",
		ErrCodeInputValidationFailed: "VALIDATION",
		ErrCodeParseError:            "VALIDATION",
		ErrCodeProfileIndexFailed:    "SEARCH",
		ErrCodeSearchTimeout:         "SEARCH",
		ErrCodeProfileSaveFailed:     "DATABASE",
		ErrCodeQueryTimeout:          "DATABASE",
		ErrCodeExternalService:       "INFRASTRUCTURE",
		ErrCodeInternal:              "OTHER",
	}

	for code, expected := range tests {
		assert.Equal(t, expected, GetErrorCategory(code), "code %s", code)
	}
}

func TestStandardError_Unwrap(t *testing.T) {
	cause := stderrors.New("pq: connection refused")
	stdErr := NewProfileQueryFailedError("user_profiles", cause)

	require.ErrorIs(t, stdErr, cause)
	assert.Contains(t, stdErr.Details, "queryType: user_profiles")
	assert.True(t, IsRetryableErrorCode(stdErr.Code))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidAnswer))
}

type ctxKey struct{}

func TestCommandContext_OutlivesJobDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.WithValue(context.Background(), ctxKey{}, "span"), time.Millisecond)
	defer cancel()
	<-parent.Done()

	ctx, cancelCmd := CommandContext(parent)
	defer cancelCmd()

	assert.NoError(t, ctx.Err())
	assert.Equal(t, "span", ctx.Value(ctxKey{}))
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(CommandTimeout), deadline, time.Second)
}
