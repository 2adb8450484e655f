package service

var (
	IStatsService      = &StatsServiceImpl{}
	IReadingService    = &ReadingServiceImpl{}
	IStatsCacheService = &StatsCacheServiceImpl{}
	IImportJobService  = &ImportJobServiceImpl{}
)
