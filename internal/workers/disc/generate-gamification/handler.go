// internal/workers/disc/generate-gamification/handler.go
package generategamification

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

const TaskType = "disc-generate-gamification"

type Handler struct {
	config     *Config
	repository models.ProfileRepository
	runner     *camunda.Runner
	logger     logger.Logger
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	// Repository supplies the owner's assessment count; optional.
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
	if input.Profile == nil {
		return nil, apperrors.NewInputValidationError("profile is required")
	}

	count, err := h.assessmentCount(ctx, input)
	if err != nil {
		return nil, err
	}

	snapshot, err := disc.GenerateGamificationData(input.Profile, count)
	if err != nil {
		return nil, err
	}
	if count < 1 {
		count = 1
	}

	h.logger.Info("gamification generated", map[string]interface{}{
		"userId":          input.UserID,
		"profileId":       input.Profile.ID,
		"assessmentCount": count,
		"badges":          len(snapshot.Badges),
	})

	return &Output{Gamification: snapshot, AssessmentCount: count}, nil
}

// assessmentCount uses, in order: the explicit count, the stored history
// for the owner, or 1 for the profile at hand.
func (h *Handler) assessmentCount(ctx context.Context, input *Input) (int, error) {
	if input.AssessmentCount != nil {
		return *input.AssessmentCount, nil
	}

	owner := input.UserID
	if owner == "" {
		owner = input.Profile.UserID
	}
	if owner == "" || h.repository == nil {
		return 1, nil
	}

	count, err := h.repository.CountUserProfiles(ctx, owner)
	if err != nil {
		return 0, err
	}
	return count, nil
}
