// internal/common/camunda/job.go
package camunda

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"

	apperrors "disc-workers/internal/common/errors"
	"disc-workers/internal/common/logger"
	"disc-workers/internal/common/metrics"
	"disc-workers/internal/common/observability"
	"disc-workers/internal/common/validation"
)

// ExecuteFunc runs a worker's business logic on validated job variables.
// The returned value becomes the job's completion variables.
type ExecuteFunc func(ctx context.Context, variables map[string]interface{}) (interface{}, error)

type RunnerOptions struct {
	TaskType      string
	Timeout       time.Duration
	Validator     *validation.Validator
	Observability *observability.Observability
	Logger        logger.Logger
}

// Runner drives one job through decode, validation, execution and the
// complete or fail/throw response, recording metrics and a span on the way.
type Runner struct {
	taskType  string
	timeout   time.Duration
	validator *validation.Validator
	obs       *observability.Observability
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewRunner(opts RunnerOptions) *Runner {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Runner{
		taskType:  opts.TaskType,
		timeout:   timeout,
		validator: opts.Validator,
		obs:       opts.Observability,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
	}
}

func (r *Runner) Run(client worker.JobClient, job entities.Job, execute ExecuteFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	ctx, span := r.obs.StartSpan(ctx, r.taskType,
		attribute.Int64("job.key", job.GetKey()),
		attribute.Int64("process.instance.key", job.GetProcessInstanceKey()),
	)
	timer := metrics.StartJob(r.taskType)

	r.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"retries":            job.GetRetries(),
	})

	output, err := r.Process(ctx, job, execute)
	if err == nil {
		err = r.completeJob(ctx, client, job, output)
	}
	if err != nil {
		stdErr := r.errors.HandleJobError(ctx, client, job, err)
		timer.Failed(string(stdErr.Code))
		r.record(ctx, timer, "failed")
		observability.EndSpan(span, stdErr)
		return
	}

	timer.Succeeded()
	r.record(ctx, timer, "completed")
	observability.EndSpan(span, nil)
	r.logger.Info("job completed", map[string]interface{}{
		"jobKey":     job.GetKey(),
		"durationMs": timer.Elapsed().Milliseconds(),
	})
}

// Process reads and validates the job variables and runs execute on them.
func (r *Runner) Process(ctx context.Context, job entities.Job, execute ExecuteFunc) (interface{}, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, apperrors.NewParseError(err)
	}
	if variables == nil {
		variables = map[string]interface{}{}
	}
	if r.validator != nil {
		if err := r.validator.Check(r.taskType, variables); err != nil {
			return nil, err
		}
	}
	return execute(ctx, variables)
}

func (r *Runner) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		return apperrors.NewParseError(err)
	}
	sendCtx, cancel := apperrors.CommandContext(ctx)
	defer cancel()
	if _, err := cmd.Send(sendCtx); err != nil {
		r.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return apperrors.NewExternalServiceError("zeebe", err)
	}
	return nil
}

func (r *Runner) record(ctx context.Context, timer *metrics.JobTimer, status string) {
	r.obs.RecordJobProcessed(ctx, r.taskType, status)
	r.obs.RecordJobDuration(ctx, r.taskType, timer.Elapsed(), status)
}

// DecodeVariables copies job variables into a typed input struct.
func DecodeVariables(variables map[string]interface{}, out interface{}) error {
	data, err := json.Marshal(variables)
	if err != nil {
		return apperrors.NewParseError(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.NewParseError(err)
	}
	return nil
}
