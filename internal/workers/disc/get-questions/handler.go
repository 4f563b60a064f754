// internal/workers/disc/get-questions/handler.go
package getquestions

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"disc-workers/internal/common/camunda"
	"disc-workers/internal/common/config"
	"disc-workers/internal/common/logger"
	"disc-workers/internal/common/observability"
	"disc-workers/internal/common/validation"
	"disc-workers/internal/disc"
)

const TaskType = "disc-get-questions"

type Handler struct {
	config *Config
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

	return &Handler{
		config: cfg,
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
	h.runner.Run(client, job, func(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
		return h.Execute(ctx, &Input{})
	})
}

// Execute returns the question bank in presentation order.
func (h *Handler) Execute(_ context.Context, _ *Input) (*Output, error) {
	questions := disc.Questions()
	return &Output{Questions: questions, Count: len(questions)}, nil
}
