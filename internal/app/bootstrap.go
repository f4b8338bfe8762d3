// Пакет app — сборка зависимостей приложения.
package app

import (
	"context"

	"github.com/Gunvolt24/bol_export/config"
	"github.com/Gunvolt24/bol_export/internal/bolapi"
	"github.com/Gunvolt24/bol_export/internal/export"
	"github.com/Gunvolt24/bol_export/internal/ports"
	"github.com/Gunvolt24/bol_export/internal/state"
	"github.com/Gunvolt24/bol_export/internal/usecase"
	"github.com/Gunvolt24/bol_export/pkg/logger"
	"github.com/Gunvolt24/bol_export/pkg/metrics"
	"github.com/Gunvolt24/bol_export/pkg/retry"
	"github.com/Gunvolt24/bol_export/pkg/telemetry"
)

// App — собранное приложение: пайплайн экспорта и диагностика.
type App struct {
	Logger ports.Logger
	Export *usecase.ExportService
	Health *usecase.HealthCheck
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd, cfg.Logger.Dir, cfg.Logger.Verbose)
	if err != nil {
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.Setup(ctx, telemetry.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Клиент Retailer API: токены, троттлинг и повторы внутри.
	client := bolapi.New(bolapi.Config{
		APIBase:      cfg.API.Base,
		TokenURL:     cfg.API.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Accept:       cfg.API.Accept,
		Timeout:      cfg.API.Timeout,
		MinInterval:  cfg.API.MinInterval,
		Retry: retry.Policy{
			Attempts: cfg.Retry.Attempts,
			MinWait:  cfg.Retry.MinWait,
			MaxWait:  cfg.Retry.MaxWait,
		},
	}, logg)

	// Леджер дедупликации.
	stateStore, err := state.NewStore(cfg.State.Dir, logg)
	if err != nil {
		cleanup(ctx, logg, cleanupLogger, shutdownTrace)
		return nil, func() {}, err
	}

	// Писатель дневных xlsx-файлов.
	writer, err := export.NewExcelWriter(cfg.Export.Dir, logg)
	if err != nil {
		cleanup(ctx, logg, cleanupLogger, shutdownTrace)
		return nil, func() {}, err
	}

	application := &App{
		Logger: logg,
		Export: usecase.NewExportService(client, stateStore, writer, logg, cfg.FulfilmentMethod),
		Health: usecase.NewHealthCheck(client.TokenSource(), client, logg, cfg.FulfilmentMethod),
	}

	return application, func() { cleanup(ctx, logg, cleanupLogger, shutdownTrace) }, nil
}

// cleanup — освобождение ресурсов в обратном порядке инициализации.
func cleanup(ctx context.Context, logg ports.Logger, cleanupLogger func() error, shutdownTrace func(context.Context) error) {
	if err := shutdownTrace(ctx); err != nil {
		logg.Warnf(ctx, "shutdown tracing: %v", err)
	}
	if err := cleanupLogger(); err != nil {
		logg.Warnf(ctx, "cleanup logger: %v", err)
	}
}
