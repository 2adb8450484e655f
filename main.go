package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/cronjob"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/log"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/toml"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/worker"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/src/cron"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/src/handler"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/src/tools"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := toml.GetConfig()

	tools.SafeStart(
		func() {
			worker.StartWorkerPool(cfg.Import.Numworkers, cfg.Import.Jobqueuesize, cfg.Import.Concurrency)
		},
		func() {
			cron.ScheduleCsvImports()
		},
	)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(tools.Recover)
	r.Use(tools.Cors())
	handler.RegisterRoutes(r)

	s := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println(err)
		}
	}()
	log.Logger.Info("Server started", log.Int("port", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Logger.Info("Shutting down")
	cronjob.StopCJ()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Logger.Error("Forced shutdown", log.Error(err))
	}
}
