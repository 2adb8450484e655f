package service

import (
	"time"

	config "github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/circuitbreaker"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/entity"

	"gorm.io/gorm"
)

// ReadingFilter is the structured row filter the aggregator hands to storage.
// It never becomes string-built SQL.
type ReadingFilter struct {
	ValidOnly bool
	Year      int // 0 = every year
}

type ReadingServiceImpl struct{}

// FetchReadings returns hourly rows matching the filter, ordered by date then
// start_time. The aggregator relies on that ordering for grouping.
func (r *ReadingServiceImpl) FetchReadings(db *gorm.DB, f ReadingFilter) ([]entity.ElectricityDataEntity, error) {
	var rows []entity.ElectricityDataEntity
	err := config.DBWithCircuitBreaker(db, func(tx *gorm.DB) error {
		q := tx.Model(&entity.ElectricityDataEntity{})
		q = applyReadingFilter(q, f)
		return q.Order("date asc, start_time asc").Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FetchDay returns every reading of one calendar day, ordered by start_time.
func (r *ReadingServiceImpl) FetchDay(db *gorm.DB, day time.Time) ([]entity.ElectricityDataEntity, error) {
	var rows []entity.ElectricityDataEntity
	err := config.DBWithCircuitBreaker(db, func(tx *gorm.DB) error {
		return tx.Model(&entity.ElectricityDataEntity{}).
			Where("date = ?", day.Format(dateLayout)).
			Order("start_time asc").
			Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func applyReadingFilter(q *gorm.DB, f ReadingFilter) *gorm.DB {
	if f.ValidOnly {
		q = q.Where("consumption_amount IS NOT NULL AND production_amount IS NOT NULL AND hourly_price IS NOT NULL")
	}
	if f.Year > 0 {
		from := time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		q = q.Where("date >= ? AND date < ?", from.Format(dateLayout), from.AddDate(1, 0, 0).Format(dateLayout))
	}
	return q
}
