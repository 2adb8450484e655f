package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/entity"

	"gorm.io/gorm"
)

// ErrNoData is returned when a requested date has no readings.
var ErrNoData = errors.New("no data found for the given date")

// production is stored in the source's native unit, multiply to get kWh
const productionToKwh = 1000.0

const dateLayout = "2006-01-02"
const hourLayout = "15:04"

// StatsFilter selects and pages the daily summaries. Limit == 0 means
// "return all days", Year == 0 means all years.
type StatsFilter struct {
	ValidOnly bool
	Year      int
	Page      int
	Limit     int
}

type DailySummary struct {
	Date                  string   `json:"date"`
	TotalConsumption      *float64 `json:"total_consumption"`
	TotalProduction       *float64 `json:"total_production"`
	AvgPrice              *float64 `json:"avg_price"`
	LongestNegativeStreak int      `json:"longest_negative_streak"`
}

type HourlyData struct {
	StartTime         string   `json:"startTime"`
	ConsumptionAmount *float64 `json:"consumptionAmount"`
	ProductionAmount  *float64 `json:"productionAmount"`
	HourlyPrice       *float64 `json:"hourlyPrice"`
}

type DailyDetail struct {
	DailySummary
	PeakConsumptionHour *string      `json:"peak_consumption_hour"`
	CheapestHours       []string     `json:"cheapest_hours"`
	HourlyData          []HourlyData `json:"hourly_data"`
}

type StatsServiceImpl struct{}

// DailySummaries returns one summary per day, ascending by date, paged by the
// filter. Aggregation happens in-process over rows ordered by
// (date, start_time), the storage layer only filters.
func (s *StatsServiceImpl) DailySummaries(db *gorm.DB, f StatsFilter) ([]DailySummary, error) {
	if cached, ok := IStatsCacheService.GetSummaries(f); ok {
		return cached, nil
	}

	rows, err := IReadingService.FetchReadings(db, ReadingFilter{ValidOnly: f.ValidOnly, Year: f.Year})
	if err != nil {
		return nil, fmt.Errorf("fetch readings: %w", err)
	}

	page := paginateDays(AggregateDaily(rows), f.Page, f.Limit)
	IStatsCacheService.SetSummaries(f, page)
	return page, nil
}

// DayDetail returns the full breakdown for one YYYY-MM-DD date.
// Returns ErrNoData when the date has no readings.
func (s *StatsServiceImpl) DayDetail(db *gorm.DB, date string) (DailyDetail, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		// an unparseable date can never match a reading
		return DailyDetail{}, ErrNoData
	}

	rows, err := IReadingService.FetchDay(db, day)
	if err != nil {
		return DailyDetail{}, fmt.Errorf("fetch day %s: %w", date, err)
	}
	if len(rows) == 0 {
		return DailyDetail{}, ErrNoData
	}
	return BuildDayDetail(rows), nil
}

// AggregateDaily groups hourly rows into per-day summaries. Rows must be
// ordered by date then start_time, which is how the reading service returns
// them. A day with readings but no negative-price hour still appears, with a
// streak of 0.
func AggregateDaily(rows []entity.ElectricityDataEntity) []DailySummary {
	summaries := make([]DailySummary, 0)
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i == len(rows) || !sameDay(rows[i].Date, rows[start].Date) {
			summaries = append(summaries, summarizeDay(rows[start:i]))
			start = i
		}
	}
	return summaries
}

// BuildDayDetail computes the single-day shape from that day's readings,
// ordered by start_time. The caller guarantees len(day) > 0.
func BuildDayDetail(day []entity.ElectricityDataEntity) DailyDetail {
	detail := DailyDetail{DailySummary: summarizeDay(day)}
	detail.PeakConsumptionHour = peakConsumptionHour(day)
	detail.CheapestHours = cheapestHours(day, detail.AvgPrice)

	detail.HourlyData = make([]HourlyData, 0, len(day))
	for i := range day {
		r := &day[i]
		detail.HourlyData = append(detail.HourlyData, HourlyData{
			StartTime:         r.StartTime.Format(hourLayout),
			ConsumptionAmount: r.ConsumptionAmount,
			ProductionAmount:  r.ProductionAmount,
			HourlyPrice:       r.HourlyPrice,
		})
	}
	return detail
}

func summarizeDay(day []entity.ElectricityDataEntity) DailySummary {
	var consumption, production, priceSum *float64
	priceCount := 0

	for i := range day {
		r := &day[i]
		consumption = addNullable(consumption, r.ConsumptionAmount)
		production = addNullable(production, r.ProductionAmount)
		if r.HourlyPrice != nil {
			priceSum = addNullable(priceSum, r.HourlyPrice)
			priceCount++
		}
	}

	var avg *float64
	if priceSum != nil && priceCount > 0 {
		v := *priceSum / float64(priceCount)
		avg = &v
	}

	return DailySummary{
		Date:                  day[0].Date.Format(dateLayout),
		TotalConsumption:      consumption,
		TotalProduction:       production,
		AvgPrice:              avg,
		LongestNegativeStreak: longestNegativeStreak(day),
	}
}

// longestNegativeStreak finds the longest run of consecutive readings with a
// negative price. A null price ends the current run, it never counts as
// negative.
func longestNegativeStreak(day []entity.ElectricityDataEntity) int {
	longest, run := 0, 0
	for i := range day {
		if p := day[i].HourlyPrice; p != nil && *p < 0 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

// peakConsumptionHour returns the HH:MM of the hour with the highest
// consumption-to-production ratio. Production is scaled to kWh so both sides
// of the ratio share a unit. Rows with null consumption or zero/null
// production are disqualified rather than divided by zero; ties keep the
// earliest hour.
func peakConsumptionHour(day []entity.ElectricityDataEntity) *string {
	var best *entity.ElectricityDataEntity
	var bestRatio float64

	for i := range day {
		r := &day[i]
		if r.ConsumptionAmount == nil || r.ProductionAmount == nil || *r.ProductionAmount == 0 {
			continue
		}
		ratio := *r.ConsumptionAmount / (*r.ProductionAmount * productionToKwh)
		if best == nil || ratio > bestRatio {
			best = r
			bestRatio = ratio
		}
	}

	if best == nil {
		return nil
	}
	hour := best.StartTime.Format(hourLayout)
	return &hour
}

// cheapestHours lists up to three HH:MM values ascending by price, ties kept
// in start_time order. An all-null day or an average price of exactly 0 means
// there is no real price data, so the list is empty.
func cheapestHours(day []entity.ElectricityDataEntity, avgPrice *float64) []string {
	if avgPrice == nil || *avgPrice == 0 {
		return []string{}
	}

	type pricedHour struct {
		price float64
		hour  string
	}
	priced := make([]pricedHour, 0, len(day))
	for i := range day {
		r := &day[i]
		if r.HourlyPrice == nil {
			continue
		}
		priced = append(priced, pricedHour{price: *r.HourlyPrice, hour: r.StartTime.Format(hourLayout)})
	}

	sort.SliceStable(priced, func(a, b int) bool {
		return priced[a].price < priced[b].price
	})

	hours := make([]string, 0, 3)
	for i := 0; i < len(priced) && i < 3; i++ {
		hours = append(hours, priced[i].hour)
	}
	return hours
}

// paginateDays windows the day list. Page and limit apply to days, not hours;
// limit 0 disables paging entirely.
func paginateDays(days []DailySummary, page, limit int) []DailySummary {
	if limit <= 0 {
		return days
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(days) {
		return []DailySummary{}
	}
	end := start + limit
	if end > len(days) {
		end = len(days)
	}
	return days[start:end]
}

func addNullable(total, v *float64) *float64 {
	if v == nil {
		return total
	}
	if total == nil {
		sum := *v
		return &sum
	}
	sum := *total + *v
	return &sum
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
