// cmd/worker-manager/workers.go
package main

import (
	"fmt"

	"disc-workers/internal/common/camunda"
	"disc-workers/internal/common/config"
	"disc-workers/internal/common/logger"
	"disc-workers/internal/common/observability"
	"disc-workers/internal/common/validation"
	"disc-workers/internal/models"
	"disc-workers/internal/profiles"

	cp "disc-workers/internal/workers/disc/calculate-profile"
	gg "disc-workers/internal/workers/disc/generate-gamification"
	gr "disc-workers/internal/workers/disc/generate-report"
	gq "disc-workers/internal/workers/disc/get-questions"
	gup "disc-workers/internal/workers/disc/get-user-profiles"
	sp "disc-workers/internal/workers/disc/save-profile"
	td "disc-workers/internal/workers/disc/team-distribution"
)

type deps struct {
	repository    models.ProfileRepository
	index         *profiles.SearchIndex
	validator     *validation.Validator
	observability *observability.Observability
	logger        logger.Logger
}

func registration(cfg *config.Config, taskType string, handler camunda.JobHandler) camunda.Registration {
	return camunda.Registration{
		TaskType: taskType,
		Handler:  handler,
		Config:   config.GetWorkerConfig(cfg, taskType),
	}
}

// buildRegistrations creates one handler per task type. The team distribution
// worker is left out when no search index is configured.
func buildRegistrations(cfg *config.Config, d deps) ([]camunda.Registration, error) {
	var index models.ProfileIndex
	if d.index != nil {
		index = d.index
	}

	var regs []camunda.Registration

	// --- 1. Assessment ---
	getQuestions, err := gq.NewHandler(gq.HandlerOptions{
		AppConfig: cfg, Validator: d.validator, Observability: d.observability, Logger: d.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s handler: %w", gq.TaskType, err)
	}
	regs = append(regs, registration(cfg, gq.TaskType, getQuestions))

	calculate, err := cp.NewHandler(cp.HandlerOptions{
		AppConfig: cfg, Validator: d.validator, Observability: d.observability, Logger: d.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s handler: %w", cp.TaskType, err)
	}
	regs = append(regs, registration(cfg, cp.TaskType, calculate))

	// --- 2. Persistence ---
	save, err := sp.NewHandler(sp.HandlerOptions{
		AppConfig: cfg, Repository: d.repository, Index: index,
		Validator: d.validator, Observability: d.observability, Logger: d.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s handler: %w", sp.TaskType, err)
	}
	regs = append(regs, registration(cfg, sp.TaskType, save))

	history, err := gup.NewHandler(gup.HandlerOptions{
		AppConfig: cfg, Repository: d.repository,
		Validator: d.validator, Observability: d.observability, Logger: d.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s handler: %w", gup.TaskType, err)
	}
	regs = append(regs, registration(cfg, gup.TaskType, history))

	// --- 3. Presentation ---
	report, err := gr.NewHandler(gr.HandlerOptions{
		AppConfig: cfg, Repository: d.repository,
		Validator: d.validator, Observability: d.observability, Logger: d.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s handler: %w", gr.TaskType, err)
	}
	regs = append(regs, registration(cfg, gr.TaskType, report))

	gamification, err := gg.NewHandler(gg.HandlerOptions{
		AppConfig: cfg, Repository: d.repository,
		Validator: d.validator, Observability: d.observability, Logger: d.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s handler: %w", gg.TaskType, err)
	}
	regs = append(regs, registration(cfg, gg.TaskType, gamification))

	// --- 4. Analytics ---
	if index == nil {
		d.logger.Warn("search index not configured, skipping worker", map[string]interface{}{"taskType": td.TaskType})
		return regs, nil
	}
	distribution, err := td.NewHandler(td.HandlerOptions{
		AppConfig: cfg, Index: index,
		Validator: d.validator, Observability: d.observability, Logger: d.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s handler: %w", td.TaskType, err)
	}
	regs = append(regs, registration(cfg, td.TaskType, distribution))

	return regs, nil
}
