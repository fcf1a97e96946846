package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iskanderbentaleb/partenairex10/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity and reports how many cleanup jobs
// are parked on the dead-letter list; never exposes credentials or
// internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		deadJobs := int64(0)
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else if n, err := worker.DeadJobCount(ctx, rdb); err == nil {
			deadJobs = n
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":        status == http.StatusOK,
			"db":        dbStatus,
			"redis":     redisStatus,
			"dead_jobs": deadJobs,
		})
	}
}
