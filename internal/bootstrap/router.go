package bootstrap

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/pmhealth/pm-health-backend/config"
	alertdispatch "github.com/pmhealth/pm-health-backend/internal/alerts/dispatcher"
	"github.com/pmhealth/pm-health-backend/internal/alerts/engine"
	alerthttp "github.com/pmhealth/pm-health-backend/internal/alerts/http"
	alertrepo "github.com/pmhealth/pm-health-backend/internal/alerts/repository"
	alertservice "github.com/pmhealth/pm-health-backend/internal/alerts/service"
	httpapi "github.com/pmhealth/pm-health-backend/internal/api/http"
	"github.com/pmhealth/pm-health-backend/internal/api/http/middleware"
	dashhttp "github.com/pmhealth/pm-health-backend/internal/dashboard/http"
	dashservice "github.com/pmhealth/pm-health-backend/internal/dashboard/service"
	projhttp "github.com/pmhealth/pm-health-backend/internal/projects/http"
	projrepo "github.com/pmhealth/pm-health-backend/internal/projects/repository"
	projservice "github.com/pmhealth/pm-health-backend/internal/projects/service"
	"github.com/pmhealth/pm-health-backend/internal/tracking/cache"
	trackhttp "github.com/pmhealth/pm-health-backend/internal/tracking/http"
	trackrepo "github.com/pmhealth/pm-health-backend/internal/tracking/repository"
	trackservice "github.com/pmhealth/pm-health-backend/internal/tracking/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *pgxpool.Pool
	SQL         *sql.DB
	Redis       *redis.Client
	Cfg         *config.Config
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestID())
	api.Use(middleware.RateLimit(rate.Limit(20), 40))

	projectRepo := projrepo.NewRepo(dep.DB)
	snapshotRepo := trackrepo.NewSnapshotRepository(dep.SQL)
	notificationRepo := alertrepo.NewNotificationRepository(dep.SQL)
	healthCache := cache.NewHealthCache(dep.Redis, 5*time.Minute)

	highCost := decimal.NewFromInt(int64(dep.Cfg.Alerts.HighCostThreshold))
	alertEngine := engine.New(engine.Config{HighCostThreshold: &highCost})

	activityService := projservice.NewActivityService(projectRepo, notificationRepo, alertEngine, healthCache)
	trackingService := trackservice.NewTrackingService(projectRepo, snapshotRepo, healthCache)
	alertService := alertservice.NewAlertService(projectRepo, notificationRepo, alertEngine)
	dispatcher := alertdispatch.New(notificationRepo, alertdispatch.LogDeliverer{})
	dashboardService := dashservice.NewDashboardService(projectRepo, snapshotRepo, dep.Cfg.Alerts.DueSoonDays)

	projectsGroup := api.Group("/projects")
	projhttp.Register(projectsGroup, projhttp.New(projectRepo, activityService))
	trackhttp.RegisterProjectSubroutes(projectsGroup, trackhttp.New(trackingService))

	alertHandler := alerthttp.New(alertService, dispatcher)
	alerthttp.RegisterProjectSubroutes(projectsGroup, alertHandler)
	alerthttp.Register(api, alertHandler)

	dashhttp.Register(api, dashhttp.New(dashboardService))

	return r
}
