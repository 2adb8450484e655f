package tools

import (
	"net/http"

	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/toml"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// Cors adapts rs/cors to gin. The API serves a browser front-end, so allowed
// origins come from config; empty config allows everything (dev setup).
func Cors() gin.HandlerFunc {
	origins := toml.GetConfig().Server.CorsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}
