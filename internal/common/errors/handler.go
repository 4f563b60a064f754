// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// CommandTimeout bounds a complete, fail or throw command sent to the gateway.
const CommandTimeout = 10 * time.Second

// CommandContext returns a context for sending a job command. It keeps ctx's
// values but not its deadline: a job that ran out of time must still be able
// to report the failure.
func CommandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), CommandTimeout)
}

// ErrorHandler reports job errors back to Zeebe.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// JobAction is what the handler does with a failed job.
type JobAction int

const (
	// ActionFail fails the job with retries left so Zeebe redelivers it.
	ActionFail JobAction = iota
	// ActionThrow raises a BPMN error for the process to catch.
	ActionThrow
)

// Decide picks the action for a failed job and, for ActionFail, the retries to leave.
func Decide(job entities.Job, stdErr *StandardError) (JobAction, int32) {
	if !stdErr.Retryable {
		return ActionThrow, 0
	}
	maxRetries := int32(GetRetryCount(stdErr.Code))
	remaining := job.GetRetries() - 1
	if maxRetries == 0 || remaining <= 0 {
		return ActionThrow, 0
	}
	if remaining > maxRetries {
		remaining = maxRetries
	}
	return ActionFail, remaining
}

// HandleJobError normalizes err, logs it and either fails or throws the job.
// It returns the normalized error.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) *StandardError {
	stdErr := FromDomain(err)
	bpmnErr := ConvertToBPMNError(stdErr)
	action, retries := Decide(job, stdErr)

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"jobType":            job.GetType(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"errorCode":          bpmnErr.Code,
		"message":            bpmnErr.Message,
		"details":            stdErr.Details,
		"retryable":          stdErr.Retryable,
		"retries":            retries,
		"errorCategory":      GetErrorCategory(stdErr.Code),
	})

	sendCtx, cancel := CommandContext(ctx)
	defer cancel()

	var sendErr error
	if action == ActionFail {
		sendErr = h.failJob(sendCtx, client, job, bpmnErr, retries)
	} else {
		sendErr = h.throwBPMNError(sendCtx, client, job, bpmnErr)
	}
	if sendErr != nil {
		h.logger.Error("failed to report job error", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  sendErr.Error(),
		})
	}
	return stdErr
}

func (h *ErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError, retries int32) error {
	cmd := client.NewFailJobCommand().
		JobKey(job.GetKey()).
		Retries(retries).
		ErrorMessage("[" + bpmnErr.Code + "] " + bpmnErr.Message)

	withVars, err := cmd.VariablesFromMap(bpmnErr.ToErrorVariables())
	if err != nil {
		_, err = cmd.Send(ctx)
		return err
	}
	_, err = withVars.Send(ctx)
	return err
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) error {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.GetKey()).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables())
	if err != nil {
		_, err = cmd.Send(ctx)
		return err
	}
	withVars, err := cmd.VariablesFromString(string(varsJSON))
	if err != nil {
		_, err = cmd.Send(ctx)
		return err
	}
	_, err = withVars.Send(ctx)
	return err
}
