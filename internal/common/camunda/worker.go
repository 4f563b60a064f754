// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"disc-workers/internal/common/config"
	"disc-workers/internal/common/logger"
)

type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Registration binds a handler to its task type and worker settings.
type Registration struct {
	TaskType string
	Handler  JobHandler
	Config   config.WorkerConfig
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// Pool owns the job workers opened for one Zeebe client.
type Pool struct {
	workers []*CamundaWorker
	logger  logger.Logger
}

// StartWorkers opens a job worker for every enabled registration.
func StartWorkers(client zbc.Client, regs []Registration, log logger.Logger) *Pool {
	pool := &Pool{logger: log}
	for _, reg := range regs {
		if !reg.Config.Enabled {
			log.Info("worker disabled", map[string]interface{}{"taskType": reg.TaskType})
			continue
		}
		pool.workers = append(pool.workers, startWorker(client, reg, log))
	}
	return pool
}

func startWorker(client zbc.Client, reg Registration, log logger.Logger) *CamundaWorker {
	jobWorker := client.NewJobWorker().
		JobType(reg.TaskType).
		Handler(reg.Handler.Handle).
		MaxJobsActive(reg.Config.MaxJobsActive).
		Timeout(time.Duration(reg.Config.Timeout) * time.Millisecond).
		Name(reg.TaskType).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      reg.TaskType,
		"maxJobsActive": reg.Config.MaxJobsActive,
		"timeout_ms":    reg.Config.Timeout,
	})

	return &CamundaWorker{
		worker:   jobWorker,
		logger:   log,
		taskType: reg.TaskType,
	}
}

func (p *Pool) TaskTypes() []string {
	out := make([]string, 0, len(p.workers))
	for _, w := range p.workers {
		out = append(out, w.taskType)
	}
	return out
}

// Stop closes every worker and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.Stop()
	}
}

func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", map[string]interface{}{"taskType": w.taskType})
	w.worker.Close()
	w.worker.AwaitClose()
}
