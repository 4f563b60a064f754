// internal/workers/disc/generate-report/handler.go
package generatereport

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

const TaskType = "disc-generate-report"

type Handler struct {
	config     *Config
	repository models.ProfileRepository
	runner     *camunda.Runner
	logger     logger.Logger
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	// Repository resolves the latest profile when the job only names an owner.
	Repository    models.ProfileRepository
	Validator     *validation.Validator
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInputValidationError("input cannot be nil")
	}

	profile, err := h.resolveProfile(ctx, input)
	if err != nil {
		return nil, err
	}

	report, err := disc.GenerateReport(profile)
	if err != nil {
		return nil, err
	}

	h.logger.Info("report generated", map[string]interface{}{
		"userId":       profile.UserID,
		"profileId":    profile.ID,
		"primaryStyle": string(profile.PrimaryStyle),
	})

	return &Output{Report: report}, nil
}

// resolveProfile prefers the profile in the job over a repository lookup.
func (h *Handler) resolveProfile(ctx context.Context, input *Input) (*disc.Profile, error) {
	if input.Profile != nil {
		return input.Profile, nil
	}
	if input.UserID == "" {
		return nil, apperrors.NewInputValidationError("profile or userId is required")
	}
	if h.repository == nil {
		return nil, apperrors.NewInputValidationError("profile is required when no repository is configured")
	}

	profiles, err := h.repository.GetUserProfiles(ctx, input.UserID, 1)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, apperrors.NewProfileNotFoundError(input.UserID)
	}
	return profiles[0], nil
}
