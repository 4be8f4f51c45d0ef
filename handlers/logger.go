package handlers

import (
	"homefix/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves a Zap logger from the Gin context or derives one tagged
// with the client id.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	logger := utils.GetLogger()
	if id := c.GetString(utils.ContextClientID); len(id) >= 8 {
		logger = logger.With(zap.String("client", id[:8]))
	}
	return logger
}
