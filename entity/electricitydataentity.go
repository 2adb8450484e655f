package entity

import (
	"time"

	"gorm.io/gorm"
)

// ElectricityDataEntity is one hourly reading. Consumption is stored in kWh,
// production in the source's native unit (multiply by 1000 for kWh).
// All three metrics are nullable, the source data has gaps.
type ElectricityDataEntity struct {
	Id                string    `json:"id" gorm:"column:id;type:char(36);primaryKey;comment:'id'"` // UUID stored as CHAR(36)
	Date              time.Time `json:"date" gorm:"column:date;type:date;not null;index:idx_date_start,unique;comment:'Calendar date'"`
	StartTime         time.Time `json:"startTime" gorm:"column:start_time;type:timestamp;not null;index:idx_date_start,unique;comment:'Hour start'"`
	ConsumptionAmount *float64  `json:"consumptionAmount" gorm:"column:consumption_amount;type:decimal(18,6);comment:'Consumption kWh'"`
	ProductionAmount  *float64  `json:"productionAmount" gorm:"column:production_amount;type:decimal(18,6);comment:'Production native unit'"`
	HourlyPrice       *float64  `json:"hourlyPrice" gorm:"column:hourly_price;type:decimal(18,6);comment:'Hourly price'"`
	CreatedAt         int64     `json:"created_at" gorm:"autoCreateTime:milli;column:created_at;comment:'Created at'"`
	UpdatedAt         int64     `json:"updated_at" gorm:"autoUpdateTime:milli;column:updated_at;comment:'Updated at'"`
}

func (ElectricityDataEntity) TableName() string {
	return "electricity_data"
}

func (c *ElectricityDataEntity) BeforeUpdate(tx *gorm.DB) error {
	tx.Statement.SetColumn("updated_at", time.Now().UnixMilli())
	return nil
}
