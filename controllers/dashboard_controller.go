// controllers/dashboard_controller.go
package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"instrument-inventory/db"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = 30 * time.Second
)

type DashboardController struct {
	*Srv
	RDB *redis.Client
}

func NewDashboardController(s *Srv, rdb *redis.Client) *DashboardController {
	return &DashboardController{Srv: s, RDB: rdb}
}

// GET /api/dashboard/stats
// Counts are cached briefly; the dashboard polls and exact freshness
// doesn't matter at this scale.
func (dc *DashboardController) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	if b, err := dc.RDB.Get(ctx, statsCacheKey).Bytes(); err == nil {
		var cached db.DashboardStats
		if json.Unmarshal(b, &cached) == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	stats, err := dc.Repo.GetDashboardStats(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	if b, err := json.Marshal(stats); err == nil {
		_ = dc.RDB.Set(ctx, statsCacheKey, b, statsCacheTTL).Err()
	}
	c.JSON(http.StatusOK, stats)
}
