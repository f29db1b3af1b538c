package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/roms-agency/roms-backend/api/routes"
	"github.com/roms-agency/roms-backend/internal/assignments"
	"github.com/roms-agency/roms-backend/internal/candidates"
	"github.com/roms-agency/roms-backend/internal/commission"
	"github.com/roms-agency/roms-backend/internal/documents"
	"github.com/roms-agency/roms-backend/internal/joborders"
	"github.com/roms-agency/roms-backend/internal/workflow"
	"github.com/roms-agency/roms-backend/pkg/config"
	"github.com/roms-agency/roms-backend/pkg/db"
	"github.com/roms-agency/roms-backend/pkg/logger"
	"github.com/roms-agency/roms-backend/pkg/migrate"
	"github.com/roms-agency/roms-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	conn := dbClient.DB()
	candidateRepo := candidates.NewRepository(conn)
	documentRepo := documents.NewRepository(conn)
	jobOrderRepo := joborders.NewRepository(conn)
	assignmentRepo := assignments.NewRepository(conn)
	commissionRepo := commission.NewRepository(conn)

	candidateService, err := candidates.NewService(candidateRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create candidate service", err)
		os.Exit(1)
	}
	documentService, err := documents.NewService(documentRepo, candidateRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create document service", err)
		os.Exit(1)
	}
	evaluator, err := documents.NewEvaluator(documentRepo, cfg.Workflow.PassportMinValidityMonths)
	if err != nil {
		logg.Error(context.Background(), "failed to create document evaluator", err)
		os.Exit(1)
	}
	jobOrderService, err := joborders.NewService(jobOrderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create job order service", err)
		os.Exit(1)
	}
	assignmentService, err := assignments.NewService(assignmentRepo, dbClient, candidateRepo, jobOrderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create assignment service", err)
		os.Exit(1)
	}
	commissionService, err := commission.NewService(commissionRepo, dbClient, candidateRepo, assignmentRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create commission service", err)
		os.Exit(1)
	}
	workflowService, err := workflow.NewService(candidateRepo, dbClient, evaluator, assignmentService, jobOrderService, commissionService)
	if err != nil {
		logg.Error(context.Background(), "failed to create workflow service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			candidateService,
			documentService,
			workflowService,
			jobOrderService,
			assignmentService,
			commissionService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
