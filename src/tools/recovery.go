package tools

import (
	"runtime/debug"

	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recover is the gin panic-recovery middleware: log with stack, answer 500.
func Recover(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Logger.Error("Recovered from panic",
				zap.Any("panic", r),
				log.Any("stack", string(debug.Stack())),
			)
			c.AbortWithStatusJSON(500, gin.H{"error": "Internal server error"})
		}
	}()
	c.Next()
}
