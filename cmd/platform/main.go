package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"

	"github.com/ssisim/agent-sim-platform/internal/api"
	"github.com/ssisim/agent-sim-platform/internal/buildinfo"
	"github.com/ssisim/agent-sim-platform/internal/cache"
	"github.com/ssisim/agent-sim-platform/internal/config"
	"github.com/ssisim/agent-sim-platform/internal/core/services"
	"github.com/ssisim/agent-sim-platform/internal/db"
	"github.com/ssisim/agent-sim-platform/internal/health"
	"github.com/ssisim/agent-sim-platform/internal/log"
	"github.com/ssisim/agent-sim-platform/internal/pubsub"
	"github.com/ssisim/agent-sim-platform/internal/repositories"
	"github.com/ssisim/agent-sim-platform/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Error(context.Background(), "cannot load config", "err", err)
		return
	}

	ctx := log.NewContext(context.Background(), cfg.Log.Level, cfg.Log.Mode, os.Stdout)

	if err := cfg.Sanitize(); err != nil {
		log.Error(ctx, "there are errors in the configuration that prevent server to start", "err", err)
		return
	}

	storage, err := db.NewStorage(cfg.Database.URL)
	if err != nil {
		log.Error(ctx, "cannot connect to database", "err", err)
		return
	}
	defer func() {
		_ = storage.Close()
	}()

	cachex, rdb, err := cache.NewCacheClient(ctx, *cfg)
	if err != nil {
		return
	}
	ps := pubsub.Client(pubsub.NewNoop())
	pingers := []health.Ping{storage}
	if rdb != nil {
		ps = pubsub.NewRedis(rdb)
		pingers = append(pingers, health.NewRedisPinger(rdb))
	}

	sessions := session.Cached(cachex, time.Duration(cfg.Invitation.QRStoreTTLSec)*time.Second)

	connectionsService := services.NewConnection(repositories.NewConnections(), storage, sessions, ps, cfg.Invitation.CodeLength)
	credentialsRepository := repositories.NewCredentials()
	credentialsService := services.NewCredential(credentialsRepository, storage, ps)
	proofsService := services.NewProof(repositories.NewProofRequests(), repositories.NewPresentations(), credentialsRepository, storage, ps)

	mux := chi.NewRouter()
	mux.Use(
		middleware.RequestID,
		log.ChiMiddleware(ctx),
		middleware.Recoverer,
		cors.Handler(cors.Options{AllowedOrigins: cfg.AllowedOriginsList()}),
	)
	api.NewServer(connectionsService, credentialsService, proofsService, health.New(pingers...), cfg.ServerUrl).Routes(mux)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: mux,
	}
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info(ctx, fmt.Sprintf("server started on port:%d", cfg.ServerPort), "revision", buildinfo.Revision())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "starting http server", "err", err)
		}
	}()

	<-quit
	log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "shutting down http server", "err", err)
	}
}
