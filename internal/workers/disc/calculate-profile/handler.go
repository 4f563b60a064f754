// internal/workers/disc/calculate-profile/handler.go
package calculateprofile

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"disc-workers/internal/common/camunda"
	"disc-workers/internal/common/config"
	apperrors "disc-workers/internal/common/errors"
	"disc-workers/internal/common/logger"
	"disc-workers/internal/common/metrics"
	"disc-workers/internal/common/observability"
	"disc-workers/internal/common/validation"
	"disc-workers/internal/disc"
)

const TaskType = "disc-calculate-profile"

type Handler struct {
	config *Config
	engine *disc.Engine
	runner *camunda.Runner
	logger logger.Logger
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
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

	engine, err := disc.NewEngine(
		disc.WithFeaturedTraits(cfg.FeaturedTraits...),
		disc.WithRequireComplete(cfg.RequireComplete),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	return &Handler{
		config: cfg,
		engine: engine,
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

// Execute scores the answers. Assessment errors are returned unwrapped so
// they map onto their own BPMN error codes.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInputValidationError("input cannot be nil")
	}

	profile, err := h.engine.CalculateProfile(input.Answers)
	if err != nil {
		h.logger.Warn("assessment rejected", map[string]interface{}{
			"userId":  input.UserID,
			"answers": len(input.Answers),
			"error":   err.Error(),
		})
		return nil, err
	}

	metrics.ProfilesScored.WithLabelValues(string(profile.PrimaryStyle)).Inc()
	h.logger.Info("profile calculated", map[string]interface{}{
		"userId":         input.UserID,
		"profileId":      profile.ID,
		"primaryStyle":   string(profile.PrimaryStyle),
		"secondaryStyle": string(profile.SecondaryStyle),
	})

	return &Output{Profile: profile}, nil
}
