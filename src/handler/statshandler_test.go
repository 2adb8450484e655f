package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/src/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStats struct {
	lastFilter service.StatsFilter
	lastDate   string
	summaries  []service.DailySummary
	detail     service.DailyDetail
	err        error
}

func (f *fakeStats) DailySummaries(db *gorm.DB, fl service.StatsFilter) ([]service.DailySummary, error) {
	f.lastFilter = fl
	if f.err != nil {
		return nil, f.err
	}
	return f.summaries, nil
}

func (f *fakeStats) DayDetail(db *gorm.DB, date string) (service.DailyDetail, error) {
	f.lastDate = date
	if f.err != nil {
		return service.DailyDetail{}, f.err
	}
	return f.detail, nil
}

func setupRouter(t *testing.T, fake *fakeStats) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orig := Stats
	Stats = fake
	t.Cleanup(func() { Stats = orig })

	r := gin.New()
	RegisterRoutes(r)
	return r
}

func doRequest(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetDailyStatsDefaults(t *testing.T) {
	fake := &fakeStats{summaries: []service.DailySummary{{Date: "2024-09-29"}}}
	r := setupRouter(t, fake)

	w := doRequest(r, "/api/getElectricityData/stats")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, fake.lastFilter.Page)
	assert.Equal(t, 25, fake.lastFilter.Limit)
	assert.False(t, fake.lastFilter.ValidOnly)
	assert.Equal(t, 0, fake.lastFilter.Year)

	var got []service.DailySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "2024-09-29", got[0].Date)
}

func TestGetDailyStatsFilterParsing(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  service.StatsFilter
	}{
		{
			name:  "explicit values",
			query: "?page=2&limit=10&validOnly=true&year=2024",
			want:  service.StatsFilter{Page: 2, Limit: 10, ValidOnly: true, Year: 2024},
		},
		{
			name:  "malformed values fall back to defaults",
			query: "?page=abc&limit=xyz&validOnly=maybe&year=banana",
			want:  service.StatsFilter{Page: 1, Limit: 25},
		},
		{
			name:  "limit zero is the fetch-all sentinel",
			query: "?page=3&limit=0",
			want:  service.StatsFilter{Page: 3, Limit: 0},
		},
		{
			name:  "negative values are rejected",
			query: "?page=-4&limit=-1&year=-2",
			want:  service.StatsFilter{Page: 1, Limit: 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeStats{}
			r := setupRouter(t, fake)

			w := doRequest(r, "/api/getElectricityData/stats"+tt.query)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, fake.lastFilter)
		})
	}
}

func TestGetDailyStatsInternalError(t *testing.T) {
	fake := &fakeStats{err: assert.AnError}
	r := setupRouter(t, fake)

	w := doRequest(r, "/api/getElectricityData/stats")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// internal detail never leaks to the caller
	assert.JSONEq(t, `{"error": "Internal server error"}`, w.Body.String())
}

func TestGetSingleDayStats(t *testing.T) {
	fake := &fakeStats{detail: service.DailyDetail{
		DailySummary:  service.DailySummary{Date: "2024-09-29"},
		CheapestHours: []string{"14:00", "15:00", "13:00"},
	}}
	r := setupRouter(t, fake)

	w := doRequest(r, "/api/getElectricityData/stats/2024-09-29")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-09-29", fake.lastDate)

	var got service.DailyDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []string{"14:00", "15:00", "13:00"}, got.CheapestHours)
}

func TestGetSingleDayStatsNotFound(t *testing.T) {
	fake := &fakeStats{err: service.ErrNoData}
	r := setupRouter(t, fake)

	w := doRequest(r, "/api/getElectricityData/stats/1999-01-01")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "No data found for the given date"}`, w.Body.String())
}

func TestLegacyStatsMount(t *testing.T) {
	fake := &fakeStats{}
	r := setupRouter(t, fake)

	w := doRequest(r, "/api/electricity/stats")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthz(t *testing.T) {
	r := setupRouter(t, &fakeStats{})

	w := doRequest(r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}
