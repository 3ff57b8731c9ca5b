package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/akeren/event-rsvp/config/router"
	"github.com/akeren/event-rsvp/internal/log"
	"gorm.io/gorm"
)

const (
	healthRequestsPerMinute = 10
	healthCheckTimeout      = 2 * time.Second
)

type Cache interface {
	Ping(ctx context.Context) error
}

// HealthStatus reports 1 for a healthy dependency and 0 otherwise.
type HealthStatus struct {
	Status   string `json:"status"`
	Database int    `json:"database"`
	Cache    int    `json:"cache"` // 0 also when Redis is not configured
	Uptime   int    `json:"uptime"`
}

type MonitoringController struct {
	db        *gorm.DB
	logger    *log.Logger
	cache     Cache
	startTime time.Time
}

// NewMonitoringController mounts GET /health. cache may be nil.
func NewMonitoringController(db *gorm.DB, logger *log.Logger, cache Cache) *router.RESTController {
	ctrl := &MonitoringController{
		db:        db,
		logger:    logger,
		cache:     cache,
		startTime: time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			limiter := routerService.NewRateLimiter(healthRequestsPerMinute, time.Minute)

			routerService.AddGetHandler(controller, limiter, "health", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(c)
			})
		},
	)
}

// healthCheck answers 503 when the submission store is unreachable. A missing cache only
// degrades rate limiting and session revocation to process memory, so it stays 200.
func (ctrl *MonitoringController) healthCheck(c *router.RequestContext) *router.ServiceResult {
	logger := router.GetLogger(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := ctrl.performHealthChecks(ctx, logger)

	if status.Database == 0 {
		return router.ErrorResult(http.StatusServiceUnavailable, "event-rsvp is unhealthy", status)
	}

	return router.OKResult(status, "event-rsvp health check completed")
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Status: "ok",
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}

	if ctrl.checkDatabase(ctx) {
		status.Database = 1
	} else {
		status.Status = "unavailable"
		logger.Error("Database health check failed")
	}

	switch {
	case ctrl.cache == nil:
		logger.Debug("Cache not configured, cache health check skipped")
	case ctrl.cache.Ping(ctx) == nil:
		status.Cache = 1
	default:
		if status.Database == 1 {
			status.Status = "degraded"
		}
		logger.Warn("Cache health check failed")
	}

	return status
}

func (ctrl *MonitoringController) checkDatabase(ctx context.Context) bool {
	if ctrl.db == nil {
		return false
	}

	sqlDB, err := ctrl.db.DB()
	if err != nil {
		return false
	}

	return sqlDB.PingContext(ctx) == nil
}
