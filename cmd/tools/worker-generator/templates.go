// cmd/tools/worker-generator/templates.go
package main

var templates = map[string]string{
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"handler.go":      handlerTemplate,
	"handler_test.go": testTemplate,
}

const configTemplate = `// internal/workers/disc/{{ .Directory }}/config.go
package {{ .PackageName }}

import (
	"fmt"
	"time"

	"disc-workers/internal/common/config"
)

type Config struct {
	Enabled       bool          ` + "`mapstructure:\"enabled\"`" + `
	MaxJobsActive int           ` + "`mapstructure:\"max_jobs_active\"`" + `
	Timeout       time.Duration ` + "`mapstructure:\"timeout\"`" + `
}

func DefaultConfig() *Config {
	timeout, err := time.ParseDuration("{{ .Timeout }}")
	if err != nil || timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       timeout,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig != nil {
		workerCfg := config.GetWorkerConfig(appConfig, TaskType)
		cfg.Enabled = workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(workerCfg.Timeout)
		}
	}
	return cfg
}
`

const modelsTemplate = `// internal/workers/disc/{{ .Directory }}/models.go
package {{ .PackageName }}

type Input struct {
{{ .InputFields }}
}

type Output struct {
{{ .OutputFields }}
}
`

const handlerTemplate = `// internal/workers/disc/{{ .Directory }}/handler.go
package {{ .PackageName }}

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
)

const TaskType = "{{ .TaskType }}"

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
	h.runner.Run(client, job, h.execute)
}

func (h *Handler) execute(ctx context.Context, variables map[string]interface{}) (interface{}, error) {
	var input Input
	if err := camunda.DecodeVariables(variables, &input); err != nil {
		return nil, err
	}
	return h.Execute(ctx, &input)
}

// Execute handles {{ .TaskType }} jobs.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInputValidationError("input cannot be nil")
	}
	return &Output{}, nil
}
`

const testTemplate = `// internal/workers/disc/{{ .Directory }}/handler_test.go
package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "disc-workers/internal/common/errors"
	"disc-workers/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:           key,
		Type:          TaskType,
		BpmnProcessId: "disc-assessment",
		ElementId:     "{{ .ElementID }}",
		CustomHeaders: "{}",
		Retries:       3,
		Variables:     string(variablesJSON),
	}}
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_NilInput(t *testing.T) {
	h := createTestHandler(t)

	_, err := h.Execute(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInputValidationFailed, apperrors.FromDomain(err).Code)
}

func TestHandler_ProcessJob(t *testing.T) {
	h := createTestHandler(t)

	_, err := h.runner.Process(context.Background(), createMockJob(1, map[string]interface{}{}), h.execute)
	require.NoError(t, err)
}
`
