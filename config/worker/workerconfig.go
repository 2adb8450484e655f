package worker

import (
	"context"
	"time"

	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/log"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/mysql"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/src/service"

	"go.uber.org/zap"
)

// QueueFileJob represents a CSV file to import
type QueueFileJob struct {
	Path string
}

// jobQueue holds files to process
var jobQueue chan QueueFileJob

// StartWorkerPool launches N workers importing files concurrently
func StartWorkerPool(numWorkers, queueSize, concurrencyPerFile int) {
	jobQueue = make(chan QueueFileJob, queueSize)

	for i := 0; i < numWorkers; i++ {
		go worker(i, concurrencyPerFile)
	}

	log.Logger.Info("Import worker pool started", zap.Int("numWorkers", numWorkers))
}

// worker picks jobs from the queue and runs them through the import service
func worker(id, concurrencyPerFile int) {
	log.Logger.Info("Worker started", zap.Int("id", id))
	db := mysql.GetDB()

	for job := range jobQueue {
		log.Logger.Info("Picked job from queue", zap.Int("worker", id), zap.String("file", job.Path))

		jobRecord, err := service.IImportJobService.RetrieveJob(job.Path, db)
		if err != nil {
			jobRecord, err = service.IImportJobService.InitJob(job.Path, db)
			if err != nil {
				log.Logger.Error("Failed to create job record, skipping job", zap.String("file", job.Path), zap.Error(err))
				continue
			}
		}

		if err := service.IImportJobService.MarkInProgress(jobRecord, job.Path, db); err != nil {
			log.Logger.Error("Failed to update job to in_progress, skipping job", zap.String("file", job.Path), zap.Error(err))
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		imp := service.NewCsvImportService(ctx, concurrencyPerFile, nil, jobRecord.ID, job.Path)
		processErr := imp.ProcessFileEntry(job.Path)
		cancel()

		service.IImportJobService.FinishJob(jobRecord, processErr, job.Path, db)
		if processErr == nil {
			// readings changed, cached summary pages are stale
			service.IStatsCacheService.Invalidate()
		}
	}
}

// EnqueueFile adds a file to the import queue
func EnqueueFile(filePath string) {
	db := mysql.GetDB()
	if _, err := service.IImportJobService.InitJob(filePath, db); err != nil {
		log.Logger.Error("Failed to initialize job, not enqueuing", zap.String("file", filePath), zap.Error(err))
		return
	}

	select {
	case jobQueue <- QueueFileJob{Path: filePath}:
		log.Logger.Info("File enqueued", zap.String("file", filePath))
	default:
		log.Logger.Warn("Job queue full, cannot enqueue file", zap.String("file", filePath))
	}
}
