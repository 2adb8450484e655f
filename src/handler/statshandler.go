package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/log"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/mysql"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/toml"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/src/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatsProvider is what the handlers need from the stats service.
type StatsProvider interface {
	DailySummaries(db *gorm.DB, f service.StatsFilter) ([]service.DailySummary, error)
	DayDetail(db *gorm.DB, date string) (service.DailyDetail, error)
}

// Stats is swapped out in handler tests.
var Stats StatsProvider = service.IStatsService

// RegisterRoutes mounts the HTTP surface. The route group names match the
// front-end's API client.
func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	data := api.Group("/getElectricityData")
	data.GET("/stats", GetDailyStats)
	data.GET("/stats/:date", GetSingleDayStats)

	// older mount of the same listing, still used by one client
	api.GET("/electricity/stats", GetDailyStats)

	r.GET("/healthz", Health)
}

// GetDailyStats serves GET /stats?page=&limit=&validOnly=&year=
func GetDailyStats(c *gin.Context) {
	filter := ParseStatsFilter(c)

	summaries, err := Stats.DailySummaries(mysql.GetDB(), filter)
	if err != nil {
		log.Logger.Error("Error fetching electricity stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// GetSingleDayStats serves GET /stats/:date
func GetSingleDayStats(c *gin.Context) {
	date := c.Param("date")

	detail, err := Stats.DayDetail(mysql.GetDB(), date)
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No data found for the given date"})
			return
		}
		log.Logger.Error("Error fetching single day electricity stats", zap.String("date", date), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ParseStatsFilter normalizes query parameters: a missing or malformed page
// falls back to 1, limit to the configured default. limit=0 is the explicit
// "fetch all days" sentinel, anything above the cap is clamped.
func ParseStatsFilter(c *gin.Context) service.StatsFilter {
	cfg := toml.GetConfig().Stats

	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit := cfg.DefaultLimit
	if raw, ok := c.GetQuery("limit"); ok {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			limit = v
		}
	}
	if cfg.MaxLimit > 0 && limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}

	year := 0
	if v, err := strconv.Atoi(c.Query("year")); err == nil && v > 0 {
		year = v
	}

	return service.StatsFilter{
		ValidOnly: c.Query("validOnly") == "true",
		Year:      year,
		Page:      page,
		Limit:     limit,
	}
}
