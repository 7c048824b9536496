package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scienceol/chemstock/internal/config"
	"github.com/scienceol/chemstock/pkg/middleware/db"
	"github.com/scienceol/chemstock/pkg/middleware/redis"
)

func Health(g *gin.Context) {
	g.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

// Live reports that the process is up.
func Live(g *gin.Context) {
	g.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready checks the database and, when enabled, redis.
func Ready(g *gin.Context) {
	checks := gin.H{}
	healthy := true

	if ds := db.DB(); ds != nil {
		sqlDB, err := ds.DBIns().DB()
		if err != nil || sqlDB.PingContext(g.Request.Context()) != nil {
			checks["database"] = "unhealthy"
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not_initialized"
		healthy = false
	}

	switch rc := redis.GetClient(); {
	case !config.Global().Redis.Enabled:
		checks["redis"] = "disabled"
	case rc == nil:
		checks["redis"] = "not_initialized"
		healthy = false
	case rc.Ping(g.Request.Context()).Err() != nil:
		checks["redis"] = "unhealthy"
		healthy = false
	default:
		checks["redis"] = "ok"
	}

	status := http.StatusOK
	msg := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		msg = "not_ready"
	}

	g.JSON(status, gin.H{
		"status": msg,
		"checks": checks,
	})
}
