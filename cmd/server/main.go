package main

import (
	"log"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/consolecatch/server/internal/cache"
	"github.com/consolecatch/server/internal/config"
	"github.com/consolecatch/server/internal/handlers"
	"github.com/consolecatch/server/internal/middleware"
	"github.com/consolecatch/server/internal/session"
)

func main() {
	cfg := config.FromEnv()

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Warnf("Redis unavailable, action history disabled: %v", err)
	}

	store := session.NewStore()

	mux := http.NewServeMux()
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.WSHandler(logger, store, cfg),
	)))
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	addr := ":" + cfg.Port
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
