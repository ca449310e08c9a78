package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cambio/internal/hub"
	"cambio/internal/httpapi"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log, err := newLogger(os.Getenv("CAMBIO_LOG"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	addr := os.Getenv("CAMBIO_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	ctx := context.Background()
	h := hub.New(ctx, log)

	handler := httpapi.SetupRoutes(h, log)

	log.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
