// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"interview-portal/internal/common/config"
	"interview-portal/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Registration binds a task type to its handler and worker settings.
type Registration struct {
	TaskType string
	Handler  func(worker.JobClient, entities.Job)
	Config   config.WorkerConfig
}

// StartWorkers opens one job worker per enabled registration.
func StartWorkers(client zbc.Client, regs []Registration, log logger.Logger) []worker.JobWorker {
	var started []worker.JobWorker
	for _, reg := range regs {
		if !reg.Config.Enabled {
			log.Info("worker disabled", map[string]interface{}{"taskType": reg.TaskType})
			continue
		}

		jw := client.NewJobWorker().
			JobType(reg.TaskType).
			Handler(reg.Handler).
			MaxJobsActive(reg.Config.MaxJobsActive).
			Timeout(time.Duration(reg.Config.Timeout) * time.Millisecond).
			Open()
		started = append(started, jw)

		log.Info("worker started", map[string]interface{}{
			"taskType":      reg.TaskType,
			"maxJobsActive": reg.Config.MaxJobsActive,
			"timeout_ms":    reg.Config.Timeout,
		})
	}
	return started
}

// StopWorkers closes workers and waits for in-flight jobs.
func StopWorkers(workers []worker.JobWorker, log logger.Logger) {
	for _, jw := range workers {
		jw.Close()
		jw.AwaitClose()
	}
	log.Info("workers stopped", map[string]interface{}{"count": len(workers)})
}
