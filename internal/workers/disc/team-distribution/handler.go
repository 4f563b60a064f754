// internal/workers/disc/team-distribution/handler.go
package teamdistribution

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"disc-workers/internal/common/camunda"
	"disc-workers/internal/common/config"
	apperrors "disc-workers/internal/common/errors"
	"disc-workers/internal/common/logger"
	"disc-workers/internal/common/observability"
	"disc-workers/internal/common/validation"
	"disc-workers/internal/models"
)

const TaskType = "disc-team-distribution"

type Handler struct {
	config *Config
	index  models.ProfileIndex
	runner *camunda.Runner
	logger logger.Logger
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Index         models.ProfileIndex
	Validator     *validation.Validator
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Index == nil {
		return nil, fmt.Errorf("profile index is required for %s", TaskType)
	}

	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config: cfg,
		index:  opts.Index,
		logger: log,
		runner: camunda.NewRunner(camunda.RunnerOptions{
			TaskType:      TaskType,
			Timeout:       cfg.Timeout,
			Validator:     opts.Validator,
			Observability: opts.Observability,
			Logger:        log,
		}),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.runner.Run(client, job, h.execute)
}

func (h *Handler) execute(ctx context.Context, variables map[string]interface{}) (interface{}, error) {
	var input Input
	if err := camunda.DecodeVariables(variables, &input); err != nil {
		return nil, err
	}
	return h.Execute(ctx, &input)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		input = &Input{}
	}

	filter, err := buildFilter(input)
	if err != nil {
		return nil, err
	}

	result, err := h.index.StyleDistribution(ctx, filter)
	if err != nil {
		h.logger.Error("style distribution query failed", map[string]interface{}{
			"userIds": len(filter.UserIDs),
			"error":   err.Error(),
		})
		return nil, err
	}

	h.logger.Info("style distribution computed", map[string]interface{}{
		"userIds": len(filter.UserIDs),
		"total":   result.Total,
	})

	return &Output{
		Distribution:  result.Distribution,
		Total:         result.Total,
		AverageScores: result.AverageScores,
	}, nil
}

func buildFilter(input *Input) (models.DistributionFilter, error) {
	filter := models.DistributionFilter{}
	for _, id := range input.UserIDs {
		if id != "" {
			filter.UserIDs = append(filter.UserIDs, id)
		}
	}
	if input.Since != "" {
		since, err := time.Parse(time.RFC3339, input.Since)
		if err != nil {
			return filter, apperrors.NewInputValidationError(fmt.Sprintf("since: %v", err))
		}
		filter.Since = since.UTC()
	}
	return filter, nil
}
