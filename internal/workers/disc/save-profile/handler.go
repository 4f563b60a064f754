// internal/workers/disc/save-profile/handler.go
package saveprofile

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
	"disc-workers/internal/models"
)

const TaskType = "disc-save-profile"

type Handler struct {
	config     *Config
	repository models.ProfileRepository
	index      models.ProfileIndex
	runner     *camunda.Runner
	logger     logger.Logger
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Repository   models.ProfileRepository
	// Index is optional; nil skips search indexing.
	Index         models.ProfileIndex
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
		index:      opts.Index,
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

// Execute persists the profile for its owner and then indexes it for
// analytics. The primary write decides the outcome; an index failure only
// clears Output.Indexed.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInputValidationError("input cannot be nil")
	}
	if input.UserID == "" {
		return nil, apperrors.NewInputValidationError("userId is required")
	}
	if input.Profile == nil {
		return nil, apperrors.NewInputValidationError("profile is required")
	}

	record, err := h.repository.SaveProfile(ctx, input.Profile, input.UserID)
	if err != nil {
		h.logger.Error("failed to save profile", map[string]interface{}{
			"userId":    input.UserID,
			"profileId": input.Profile.ID,
			"error":     err.Error(),
		})
		return nil, err
	}

	output := &Output{
		ProfileID: record.ID,
		SavedAt:   record.CreatedAt,
		Indexed:   h.indexProfile(ctx, record),
	}

	h.logger.Info("profile saved", map[string]interface{}{
		"userId":       record.UserID,
		"profileId":    record.ID,
		"primaryStyle": string(record.PrimaryStyle),
		"indexed":      output.Indexed,
	})

	return output, nil
}

func (h *Handler) indexProfile(ctx context.Context, record *models.ProfileRecord) bool {
	if h.index == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.IndexTimeout)
	defer cancel()

	if err := h.index.IndexProfile(ctx, record); err != nil {
		h.logger.Warn("failed to index profile", map[string]interface{}{
			"profileId": record.ID,
			"error":     err.Error(),
		})
		return false
	}
	return true
}
