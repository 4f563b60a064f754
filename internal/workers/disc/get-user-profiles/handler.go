// internal/workers/disc/get-user-profiles/handler.go
package getuserprofiles

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"disc-workers/internal/common/camunda"
	"disc-workers/internal/common/config"
	apperrors "disc-workers/internal/common/errors"
	"disc-workers/internal/common/logger"
	"disc-workers/internal/common/observability"
	"disc-workers/internal/common/validation"
	"disc-workers/internal/disc"
	"disc-workers/internal/models"
)

const TaskType = "disc-get-user-profiles"

type Handler struct {
	config     *Config
	repository models.ProfileRepository
	runner     *camunda.Runner
	logger     logger.Logger
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Repository    models.ProfileRepository
	Validator     *validation.Validator
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Repository == nil {
		return nil, fmt.Errorf("repository is required for %s", TaskType)
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
		config:     cfg,
		repository: opts.Repository,
		logger:     log,
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

// Execute lists the owner's profiles, most recent first. An owner with no
// history gets an empty list, not an error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInputValidationError("input cannot be nil")
	}
	if input.UserID == "" {
		return nil, apperrors.NewInputValidationError("userId is required")
	}

	limit := h.effectiveLimit(input.Limit)
	profiles, err := h.repository.GetUserProfiles(ctx, input.UserID, limit)
	if err != nil {
		h.logger.Error("failed to load profiles", map[string]interface{}{
			"userId": input.UserID,
			"limit":  limit,
			"error":  err.Error(),
		})
		return nil, err
	}
	if profiles == nil {
		profiles = []*disc.Profile{}
	}

	h.logger.Debug("profiles loaded", map[string]interface{}{
		"userId": input.UserID,
		"limit":  limit,
		"count":  len(profiles),
	})

	return &Output{Profiles: profiles, Count: len(profiles)}, nil
}

func (h *Handler) effectiveLimit(requested int) int {
	switch {
	case requested <= 0:
		return h.config.DefaultLimit
	case requested > MaxLimit:
		return MaxLimit
	default:
		return requested
	}
}
