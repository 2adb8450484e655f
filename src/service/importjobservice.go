package service

import (
	"time"

	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/log"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/entity"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ImportJobServiceImpl struct{}

// RetrieveJob returns the job record for a file
func (j *ImportJobServiceImpl) RetrieveJob(filePath string, db *gorm.DB) (entity.ImportJobEntity, error) {
	var job entity.ImportJobEntity
	err := db.First(&job, "file_path = ?", filePath).Error
	return job, err
}

// InitJob creates a new job record if not exists
func (j *ImportJobServiceImpl) InitJob(filePath string, db *gorm.DB) (entity.ImportJobEntity, error) {
	job := entity.ImportJobEntity{
		FilePath: filePath,
		Status:   "pending",
	}
	if err := db.FirstOrCreate(&job, entity.ImportJobEntity{FilePath: filePath}).Error; err != nil {
		log.Logger.Error("Failed to record import job in DB", zap.String("file", filePath), zap.Error(err))
		return entity.ImportJobEntity{}, err
	}
	return job, nil
}

// MarkInProgress marks a job as in_progress
func (j *ImportJobServiceImpl) MarkInProgress(job entity.ImportJobEntity, filePath string, db *gorm.DB) error {
	start := time.Now().UTC()
	if err := db.Model(&job).Updates(map[string]interface{}{
		"status":        "in_progress",
		"started_at":    &start,
		"finished_at":   nil,
		"error_message": nil,
	}).Error; err != nil {
		log.Logger.Error("Failed to update import job to in_progress", zap.String("file", filePath), zap.Error(err))
		return err
	}
	return nil
}

// FinishJob marks a job as success or failed
func (j *ImportJobServiceImpl) FinishJob(job entity.ImportJobEntity, err error, filePath string, db *gorm.DB) {
	finish := time.Now().UTC()

	updates := map[string]interface{}{
		"finished_at": &finish,
	}

	if err != nil {
		updates["status"] = "failed"
		updates["error_message"] = err.Error()
		log.Logger.Error("Import failed", zap.String("file", filePath), zap.Error(err))
	} else {
		updates["status"] = "success"
		log.Logger.Info("Import finished", zap.String("file", filePath))
	}

	if dbErr := db.Model(&job).Updates(updates).Error; dbErr != nil {
		log.Logger.Error("Failed to update import job completion status", zap.String("file", filePath), zap.Error(dbErr))
	}
}
