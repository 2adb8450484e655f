package service

import (
	"encoding/json"
	"fmt"

	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/log"
	redisUtil "github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/redis"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/toml"
)

// StatsCacheServiceImpl caches serialized summary pages in redis, keyed by the
// full filter. Invalidation bumps a version counter baked into every key, so
// stale pages simply fall out via TTL. The cache is best-effort: without redis
// every call is a miss.
type StatsCacheServiceImpl struct{}

const cacheVersionKey = "stats:cache:version"

func (s *StatsCacheServiceImpl) GetSummaries(f StatsFilter) ([]DailySummary, bool) {
	client, err := redisUtil.GetRedisClient()
	if err != nil {
		return nil, false
	}
	raw := client.RGet(s.summaryKey(client, f))
	if raw == "" {
		return nil, false
	}
	var summaries []DailySummary
	if err := json.Unmarshal([]byte(raw), &summaries); err != nil {
		log.Logger.Warn("dropping unreadable cache entry", log.Error(err))
		return nil, false
	}
	return summaries, true
}

func (s *StatsCacheServiceImpl) SetSummaries(f StatsFilter, summaries []DailySummary) {
	client, err := redisUtil.GetRedisClient()
	if err != nil {
		return
	}
	raw, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	ttl := toml.GetConfig().Stats.CacheTTLSecs
	if err := client.RSet(s.summaryKey(client, f), string(raw), ttl); err != nil {
		log.Logger.Warn("failed to cache summaries", log.Error(err))
	}
}

// Invalidate makes every cached page unreachable. Called after an import
// changes the underlying readings.
func (s *StatsCacheServiceImpl) Invalidate() {
	client, err := redisUtil.GetRedisClient()
	if err != nil {
		return
	}
	client.RIncr(cacheVersionKey)
	log.Logger.Info("stats cache invalidated")
}

func (s *StatsCacheServiceImpl) summaryKey(client *redisUtil.RedisClient, f StatsFilter) string {
	version := client.RGet(cacheVersionKey)
	if version == "" {
		version = "0"
	}
	return fmt.Sprintf("stats:v%s:summary:p%d:l%d:valid%t:y%d", version, f.Page, f.Limit, f.ValidOnly, f.Year)
}
