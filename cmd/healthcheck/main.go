package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/Gunvolt24/bol_export/config"
	"github.com/Gunvolt24/bol_export/internal/app"
	"github.com/Gunvolt24/bol_export/internal/usecase"
	"github.com/Gunvolt24/bol_export/pkg/ctxmeta"
)

// CLI-приложение предполётной диагностики: конфигурация, аутентификация,
// доступность Retailer API. Код возврата 1, если хоть одна проверка упала.
func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		// Конфигурация — тоже проверка: отчёт в том же формате.
		fmt.Printf("[FAIL] config: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("[ OK ] config: credentials and settings loaded")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = ctxmeta.WithRunID(ctx, uuid.NewString())

	application, cleanup, err := app.Bootstrap(ctx, &cfg)
	if err != nil {
		fmt.Printf("[FAIL] bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	results := application.Health.Run(ctx)
	for _, r := range results {
		status := "[ OK ]"
		if !r.Passed {
			status = "[FAIL]"
		}
		fmt.Printf("%s %s: %s\n", status, r.Name, r.Message)
	}

	if !usecase.AllPassed(results) {
		os.Exit(1)
	}
}
