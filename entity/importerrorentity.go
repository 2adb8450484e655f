package entity

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ImportErrorEntity keeps rejected CSV rows for later inspection instead of
// failing the whole import file.
type ImportErrorEntity struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	JobID     int64           `gorm:"not null;index;column:job_id"`
	Data      json.RawMessage `gorm:"type:json"`
	Error     string          `gorm:"type:text"`
	FilePath  string          `gorm:"type:text"`
	Resolved  bool            `gorm:"default:false"`
	CreatedAt int64           `gorm:"autoCreateTime:milli;column:created_at"`
	UpdatedAt int64           `gorm:"autoUpdateTime:milli;column:updated_at"`
}

func (ImportErrorEntity) TableName() string {
	return "import_errors"
}

func (c *ImportErrorEntity) BeforeUpdate(tx *gorm.DB) error {
	tx.Statement.SetColumn("updated_at", time.Now().UnixMilli())
	return nil
}
