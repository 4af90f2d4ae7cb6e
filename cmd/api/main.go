package main

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"github.com/pmhealth/pm-health-backend/config"
	cronjob "github.com/pmhealth/pm-health-backend/internal/alerts/cron"
	"github.com/pmhealth/pm-health-backend/internal/alerts/dispatcher"
	"github.com/pmhealth/pm-health-backend/internal/alerts/engine"
	alertrepo "github.com/pmhealth/pm-health-backend/internal/alerts/repository"
	alertservice "github.com/pmhealth/pm-health-backend/internal/alerts/service"
	"github.com/pmhealth/pm-health-backend/internal/bootstrap"
	projrepo "github.com/pmhealth/pm-health-backend/internal/projects/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)
	ctx := context.Background()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.DSN()})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer pool.Close()

	sqlDB, err := bootstrap.OpenSQL(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("open sql db: %v", err)
	}
	defer sqlDB.Close()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("open redis: %v", err)
	}
	defer rdb.Close()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "pm-health-backend",
		Version:     cfg.App.Version,
		DB:          pool,
		SQL:         sqlDB,
		Redis:       rdb,
		Cfg:         cfg,
	})

	projectRepo := projrepo.NewRepo(pool)
	notificationRepo := alertrepo.NewNotificationRepository(sqlDB)
	highCost := decimal.NewFromInt(int64(cfg.Alerts.HighCostThreshold))
	alertEngine := engine.New(engine.Config{HighCostThreshold: &highCost})
	alertSvc := alertservice.NewAlertService(projectRepo, notificationRepo, alertEngine)
	disp := dispatcher.New(notificationRepo, dispatcher.LogDeliverer{})

	sched := cronjob.NewScheduler(projectRepo, alertSvc, disp)
	sched.Start()
	defer sched.Stop()

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
