package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MishalHQ/aevon-console/internal/audit"
	"github.com/MishalHQ/aevon-console/internal/auth"
	"github.com/MishalHQ/aevon-console/internal/clients"
	"github.com/MishalHQ/aevon-console/internal/config"
	"github.com/MishalHQ/aevon-console/internal/dashboard"
	"github.com/MishalHQ/aevon-console/internal/db"
	"github.com/MishalHQ/aevon-console/internal/httpserver"
	"github.com/MishalHQ/aevon-console/internal/leads"
	"github.com/MishalHQ/aevon-console/internal/logging"
	"github.com/MishalHQ/aevon-console/internal/projects"
	"github.com/MishalHQ/aevon-console/internal/services"
	"github.com/MishalHQ/aevon-console/internal/tasks"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Env)

	dbConn, err := db.Open(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()

	if err := db.RunMigrations(ctx, dbConn, "sql"); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	userStore := auth.NewStore(dbConn)
	if err := userStore.SeedFromFile(ctx, cfg.UsersPath); err != nil {
		log.Fatalf("seed users: %v", err)
	}
	if err := userStore.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	auditStore := audit.NewStore(dbConn)
	recorder := audit.NewRecorder(auditStore, logger)
	tokens := auth.NewTokenService(cfg.JWTSecret)
	authSvc := auth.NewService(userStore, tokens, recorder, logger)

	handler := httpserver.NewRouter(httpserver.Deps{
		Logger:        logger,
		Tokens:        tokens,
		UserStore:     userStore,
		AuthSvc:       authSvc,
		Recorder:      recorder,
		AuditStore:    auditStore,
		ProjectStore:  projects.NewStore(dbConn),
		ClientStore:   clients.NewStore(dbConn),
		TaskStore:     tasks.NewStore(dbConn),
		LeadStore:     leads.NewStore(dbConn),
		ServiceStore:  services.NewStore(dbConn),
		DashboardData: dashboard.NewStore(dbConn),
	})
	server := httpserver.New(cfg, handler, logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
