package service

import (
	"testing"
	"time"

	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func reading(date string, hour int, cons, prod, price *float64) entity.ElectricityDataEntity {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return entity.ElectricityDataEntity{
		Date:              d,
		StartTime:         d.Add(time.Duration(hour) * time.Hour),
		ConsumptionAmount: cons,
		ProductionAmount:  prod,
		HourlyPrice:       price,
	}
}

// dayWithPrices builds a full day where only prices vary
func dayWithPrices(date string, prices []*float64) []entity.ElectricityDataEntity {
	rows := make([]entity.ElectricityDataEntity, 0, len(prices))
	for h, p := range prices {
		rows = append(rows, reading(date, h, fp(100), fp(10), p))
	}
	return rows
}

func TestLongestNegativeStreak(t *testing.T) {
	tests := []struct {
		name   string
		prices []*float64
		want   int
	}{
		{
			name:   "trailing run wins",
			prices: []*float64{fp(-1), fp(-2), fp(3), fp(-1), fp(-1), fp(-1), fp(2)},
			want:   3,
		},
		{
			name:   "no negative hours",
			prices: []*float64{fp(1), fp(2), fp(3)},
			want:   0,
		},
		{
			name:   "all negative",
			prices: []*float64{fp(-1), fp(-1), fp(-1), fp(-1)},
			want:   4,
		},
		{
			name:   "null price breaks the run",
			prices: []*float64{fp(-1), fp(-1), nil, fp(-1)},
			want:   2,
		},
		{
			name:   "zero is not negative",
			prices: []*float64{fp(-1), fp(0), fp(-1)},
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := dayWithPrices("2024-09-29", tt.prices)
			assert.Equal(t, tt.want, longestNegativeStreak(rows))
		})
	}
}

func TestSummarizeDaySums(t *testing.T) {
	rows := []entity.ElectricityDataEntity{
		reading("2024-09-29", 0, fp(100), fp(5), fp(0.2)),
		reading("2024-09-29", 1, nil, fp(3), fp(0.4)),
		reading("2024-09-29", 2, fp(50), nil, nil),
	}

	sum := summarizeDay(rows)

	assert.Equal(t, "2024-09-29", sum.Date)
	require.NotNil(t, sum.TotalConsumption)
	assert.InDelta(t, 150, *sum.TotalConsumption, 1e-9)
	require.NotNil(t, sum.TotalProduction)
	assert.InDelta(t, 8, *sum.TotalProduction, 1e-9)
	// average over the two non-null prices, not all three rows
	require.NotNil(t, sum.AvgPrice)
	assert.InDelta(t, 0.3, *sum.AvgPrice, 1e-9)
}

func TestSummarizeDayAllNull(t *testing.T) {
	rows := []entity.ElectricityDataEntity{
		reading("2024-09-29", 0, nil, nil, nil),
		reading("2024-09-29", 1, nil, nil, nil),
	}

	sum := summarizeDay(rows)

	assert.Nil(t, sum.TotalConsumption)
	assert.Nil(t, sum.TotalProduction)
	assert.Nil(t, sum.AvgPrice)
	assert.Equal(t, 0, sum.LongestNegativeStreak)
}

func TestAggregateDailyGrouping(t *testing.T) {
	rows := []entity.ElectricityDataEntity{
		reading("2024-09-28", 0, fp(10), fp(1), fp(0.1)),
		reading("2024-09-28", 1, fp(20), fp(1), fp(-0.1)),
		reading("2024-09-29", 0, fp(30), fp(1), fp(0.2)),
	}

	days := AggregateDaily(rows)

	require.Len(t, days, 2)
	assert.Equal(t, "2024-09-28", days[0].Date)
	assert.Equal(t, "2024-09-29", days[1].Date)
	assert.InDelta(t, 30, *days[0].TotalConsumption, 1e-9)
	assert.Equal(t, 1, days[0].LongestNegativeStreak)
	// a day without negative prices still appears, streak coalesced to 0
	assert.Equal(t, 0, days[1].LongestNegativeStreak)

	// re-aggregation of the same input is idempotent
	assert.Equal(t, days, AggregateDaily(rows))
}

func TestAggregateDailyEmptyInput(t *testing.T) {
	assert.Empty(t, AggregateDaily(nil))
}

func TestPaginateDays(t *testing.T) {
	days := make([]DailySummary, 0, 60)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		days = append(days, DailySummary{Date: base.AddDate(0, 0, i).Format("2006-01-02")})
	}

	page2 := paginateDays(days, 2, 25)
	require.Len(t, page2, 25)
	assert.Equal(t, days[25].Date, page2[0].Date) // day 26
	assert.Equal(t, days[49].Date, page2[24].Date)

	assert.Len(t, paginateDays(days, 3, 25), 10)
	assert.Empty(t, paginateDays(days, 4, 25))

	// limit 0 disables paging regardless of page
	assert.Len(t, paginateDays(days, 7, 0), 60)

	// page below 1 is normalized
	assert.Equal(t, days[0].Date, paginateDays(days, 0, 25)[0].Date)
}

func TestCheapestHoursScenario(t *testing.T) {
	prices := make([]*float64, 24)
	for h := range prices {
		prices[h] = fp(1.0)
	}
	prices[13] = fp(0.5)
	prices[14] = fp(0.1)
	prices[15] = fp(0.3)
	rows := dayWithPrices("2024-09-29", prices)

	detail := BuildDayDetail(rows)

	assert.Equal(t, []string{"14:00", "15:00", "13:00"}, detail.CheapestHours)
}

func TestCheapestHoursGuards(t *testing.T) {
	t.Run("all prices null", func(t *testing.T) {
		rows := dayWithPrices("2024-09-29", []*float64{nil, nil, nil})
		assert.Empty(t, BuildDayDetail(rows).CheapestHours)
	})

	t.Run("average price of zero means no price data", func(t *testing.T) {
		rows := dayWithPrices("2024-09-29", []*float64{fp(1), fp(-1)})
		assert.Empty(t, BuildDayDetail(rows).CheapestHours)
	})

	t.Run("fewer than three priced hours", func(t *testing.T) {
		rows := dayWithPrices("2024-09-29", []*float64{fp(0.2), nil, fp(0.1)})
		got := BuildDayDetail(rows).CheapestHours
		assert.Equal(t, []string{"02:00", "00:00"}, got)
	})

	t.Run("price ties keep start time order", func(t *testing.T) {
		rows := dayWithPrices("2024-09-29", []*float64{fp(0.1), fp(0.1), fp(0.1), fp(0.1)})
		assert.Equal(t, []string{"00:00", "01:00", "02:00"}, BuildDayDetail(rows).CheapestHours)
	})
}

func TestPeakConsumptionHour(t *testing.T) {
	t.Run("zero and null production disqualify", func(t *testing.T) {
		rows := []entity.ElectricityDataEntity{
			reading("2024-09-29", 9, fp(500), fp(0.1), fp(0.1)),   // ratio 5
			reading("2024-09-29", 10, fp(400), fp(0.001), fp(0.1)), // ratio 400
			reading("2024-09-29", 11, fp(900), fp(0), fp(0.1)),     // zero production
			reading("2024-09-29", 12, nil, fp(1), fp(0.1)),         // null consumption
			reading("2024-09-29", 13, fp(900), nil, fp(0.1)),       // null production
		}
		got := peakConsumptionHour(rows)
		require.NotNil(t, got)
		assert.Equal(t, "10:00", *got)
	})

	t.Run("all rows disqualified", func(t *testing.T) {
		rows := []entity.ElectricityDataEntity{
			reading("2024-09-29", 9, fp(500), fp(0), fp(0.1)),
			reading("2024-09-29", 10, nil, fp(1), fp(0.1)),
		}
		assert.Nil(t, peakConsumptionHour(rows))
	})

	t.Run("tie keeps the earliest hour", func(t *testing.T) {
		rows := []entity.ElectricityDataEntity{
			reading("2024-09-29", 9, fp(100), fp(1), fp(0.1)),
			reading("2024-09-29", 10, fp(100), fp(1), fp(0.1)),
		}
		got := peakConsumptionHour(rows)
		require.NotNil(t, got)
		assert.Equal(t, "09:00", *got)
	})
}

func TestBuildDayDetailHourlyData(t *testing.T) {
	rows := []entity.ElectricityDataEntity{
		reading("2024-09-29", 0, fp(10), fp(1), fp(0.1)),
		reading("2024-09-29", 1, fp(20), nil, fp(0.2)),
		reading("2024-09-29", 2, fp(30), fp(3), nil),
	}

	detail := BuildDayDetail(rows)

	require.Len(t, detail.HourlyData, 3)
	assert.Equal(t, "00:00", detail.HourlyData[0].StartTime)
	assert.Equal(t, "01:00", detail.HourlyData[1].StartTime)
	assert.Equal(t, "02:00", detail.HourlyData[2].StartTime)
	assert.Nil(t, detail.HourlyData[1].ProductionAmount)
	assert.Nil(t, detail.HourlyData[2].HourlyPrice)
}

func TestDayDetailUnparseableDate(t *testing.T) {
	// the date guard fires before any storage access, nil db is fine here
	_, err := IStatsService.DayDetail(nil, "not-a-date")
	assert.ErrorIs(t, err, ErrNoData)
}
