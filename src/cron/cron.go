package cron

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/cronjob"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/log"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/mysql"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/toml"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/worker"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/src/service"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/src/tools"

	"go.uber.org/zap"
)

// ScheduleCsvImports watches the import directory and enqueues new CSV files
// to the worker pool. Files already imported (success) or currently running
// are skipped.
func ScheduleCsvImports() {
	_cron := cronjob.GetCJ()
	cfg := toml.GetConfig().Import

	if toml.GetConfig().Environment == "development" {
		seedSampleFile(cfg.Directory)
	}

	_, err := _cron.AddFunc(cfg.Schedule, func() {
		defer func() {
			if r := recover(); r != nil {
				log.Logger.Error("Recovered from panic in import cron", zap.Any("panic", r))
			}
		}()
		scanImportDirectory(cfg.Directory)
	})
	if err != nil {
		log.Logger.Error("Failed to schedule import job", zap.String("schedule", cfg.Schedule), zap.Error(err))
	}
}

func scanImportDirectory(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Logger.Debug("import directory not readable", zap.String("dir", dir), zap.Error(err))
		return
	}

	db := mysql.GetDB()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		absPath, err := filepath.Abs(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}

		job, err := service.IImportJobService.RetrieveJob(absPath, db)
		if err == nil && (job.Status == "success" || job.Status == "in_progress") {
			continue
		}

		log.Logger.Info("CSV import triggered", zap.String("file", absPath), zap.Time("timestamp", time.Now().UTC()))
		worker.EnqueueFile(absPath)
	}
}

// seedSampleFile drops a generated dataset into an empty import directory so
// a fresh development checkout has data to serve.
func seedSampleFile(dir string) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	name := filepath.Join(dir, "sample_readings.csv")
	start := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	if err := tools.GenerateSampleCSV(name, start, 60); err != nil {
		log.Logger.Warn("failed to generate sample data", zap.Error(err))
		return
	}
	log.Logger.Info("Generated sample dataset", zap.String("file", name))
}
