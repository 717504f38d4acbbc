package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LivenessHandler answers the backend health contract: {"status":"healthy","timestamp":...}.
func LivenessHandler(now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": now().Format(time.RFC3339)})
	}
}
