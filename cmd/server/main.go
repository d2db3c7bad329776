// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/nadav-o/pokerface/internal/account"
	"github.com/nadav-o/pokerface/internal/audit"
	"github.com/nadav-o/pokerface/internal/auth"
	"github.com/nadav-o/pokerface/internal/database"
	"github.com/nadav-o/pokerface/internal/game"
	"github.com/nadav-o/pokerface/internal/handlers"
	"github.com/nadav-o/pokerface/internal/middleware"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := auth.Init(); err != nil {
		log.Fatalf("auth init failed: %v", err)
	}

	// The registry's user store: Postgres when configured, in-memory
	// otherwise.
	var store account.Store
	if os.Getenv("PG_HOST") != "" {
		pool, err := database.Connect(context.Background())
		if err != nil {
			log.Fatalf("database connect failed: %v", err)
		}
		defer pool.Close()
		store = database.NewUserStore(pool)
		logger.Info("using Postgres user store")
	} else {
		store = account.NewMemStore()
		logger.Warn("PG_HOST not set, using in-memory user store")
	}

	// Audit sink: Redis queue when configured, logrus otherwise. Either way
	// audit failures never fail the audited operation.
	var auditLog audit.Logger
	if os.Getenv("REDIS_ADDR") != "" {
		queue, err := audit.ConnectQueue(logger)
		if err != nil {
			log.Fatalf("audit queue connect failed: %v", err)
		}
		auditLog = queue
		logger.Info("audit lines go to Redis queue")
	} else {
		auditLog = &audit.LogrusLogger{Logger: logger}
	}

	registry := account.NewRegistry(store, auditLog)
	games := game.NewService(game.NewStore(), registry, auditLog)
	srv := handlers.NewServer(registry, games, logger)

	logged := middleware.Logging(logger)
	mux := http.NewServeMux()

	mux.Handle("/user/register", logged(http.HandlerFunc(srv.RegisterHandler)))
	mux.Handle("/user/login", logged(http.HandlerFunc(srv.LoginHandler)))
	mux.Handle("/user/logout", logged(http.HandlerFunc(srv.LogoutHandler)))
	mux.Handle("/user/profile", logged(http.HandlerFunc(srv.UpdateProfileHandler)))
	mux.Handle("/user/league", logged(http.HandlerFunc(srv.MoveLeagueHandler)))

	mux.Handle("/game/create", logged(http.HandlerFunc(srv.CreateGameHandler)))
	mux.Handle("/game/list", logged(http.HandlerFunc(srv.ListGamesHandler)))
	mux.Handle("/game/action/{action}", logged(http.HandlerFunc(srv.GameActionHandler)))
	mux.Handle("/game/ws/{id}", logged(http.HandlerFunc(srv.TableWSHandler)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
