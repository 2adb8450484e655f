package tools

import (
	"fmt"

	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/log"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/toml"

	"go.uber.org/zap"
)

// SafeStart initializes the logger and launches the given background jobs
// (cron scheduling, worker pools) in panic-safe goroutines.
func SafeStart(background ...func()) {
	// Recover panics in main startup
	defer func() {
		if r := recover(); r != nil {
			fmt.Println("Recovered panic in main startup:", r)
		}
	}()

	log.InitLogger(toml.GetConfig().Log.Path, toml.GetConfig().Log.Level)

	for _, job := range background {
		job := job
		NewPanicGroup().Go(func() {
			defer func() {
				if r := recover(); r != nil {
					log.Logger.Error("Recovered panic in background job", zap.Any("panic", r))
				}
			}()
			job()
		})
	}
}
