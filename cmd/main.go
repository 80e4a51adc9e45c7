package main

import (
    "net/http"

    "github.com/joho/godotenv"
    "go.uber.org/zap"

    "github.com/callbridge/callbridge-backend/config"
    "github.com/callbridge/callbridge-backend/handlers"
    "github.com/callbridge/callbridge-backend/logger"
    "github.com/callbridge/callbridge-backend/repository"
    "github.com/callbridge/callbridge-backend/signaling"
)

func main() {
    // Missing .env is fine: deployments set real environment variables.
    _ = godotenv.Load()

    logger.Init()
    defer logger.Log.Sync()

    cfg := config.LoadConfig()
    repository.ConnectToPostgreSQL(cfg)

    registry := signaling.NewRegistry()
    ledger := signaling.NewLedger()
    hub := signaling.NewHub(logger.Log)
    sigRouter := signaling.NewRouter(registry, ledger, hub, logger.Log)

    r := handlers.NewRouter(cfg, hub, sigRouter)

    logger.Log.Info("server listening", zap.String("addr", cfg.ServerAddr))
    if err := http.ListenAndServe(cfg.ServerAddr, r); err != nil {
        logger.Log.Fatal("server stopped", zap.Error(err))
    }
}
