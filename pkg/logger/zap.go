package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Gunvolt24/bol_export/pkg/ctxmeta"
)

// ZapLogger — обёртка над zap: консоль + подневной файл логов.
// Консоль пишет от INFO, файл — от DEBUG в JSON.
type ZapLogger struct {
	base   *zap.Logger
	sugar  *zap.SugaredLogger
	isProd bool
}

// NewZapLogger — конструктор. logDir == "" отключает файловый вывод;
// verbose опускает порог консоли до DEBUG.
func NewZapLogger(isProd bool, logDir string, verbose bool) (*ZapLogger, func() error, error) {
	var cores []zapcore.Core

	consoleLevel := zapcore.InfoLevel
	if verbose {
		consoleLevel = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	consoleEnc := zapcore.NewConsoleEncoder(encCfg)
	if isProd {
		consoleEnc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	cores = append(cores, zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stdout), consoleLevel))

	closeFile := func() error { return nil }
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		name := fmt.Sprintf("bol_export_%s.log", time.Now().Format("20060102"))
		f, err := os.OpenFile(filepath.Join(logDir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		fileEnc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEnc, zapcore.AddSync(f), zapcore.DebugLevel))
		closeFile = f.Close
	}

	base := zap.New(zapcore.NewTee(cores...))
	loggerWrap := &ZapLogger{
		base:   base,
		sugar:  base.Sugar(),
		isProd: isProd,
	}

	cleanup := func() error {
		// Sync по stdout на части платформ возвращает ошибку — игнорируем.
		_ = loggerWrap.base.Sync()
		return closeFile()
	}
	return loggerWrap, cleanup, nil
}

// sugarFor обогащает запись метаданными запуска из контекста.
func (z *ZapLogger) sugarFor(ctx context.Context) *zap.SugaredLogger {
	s := z.sugar
	if runID, ok := ctxmeta.RunIDFromContext(ctx); ok {
		s = s.With("run_id", runID)
	}
	if traceID, ok := ctxmeta.TraceIDFromContext(ctx); ok {
		s = s.With("trace_id", traceID)
	}
	return s
}

func (z *ZapLogger) Infof(ctx context.Context, format string, args ...any) {
	z.sugarFor(ctx).Infof(format, args...)
}
func (z *ZapLogger) Warnf(ctx context.Context, format string, args ...any) {
	z.sugarFor(ctx).Warnf(format, args...)
}
func (z *ZapLogger) Errorf(ctx context.Context, format string, args ...any) {
	z.sugarFor(ctx).Errorf(format, args...)
}

func (z *ZapLogger) Base() *zap.Logger           { return z.base }
func (z *ZapLogger) Sugared() *zap.SugaredLogger { return z.sugar }
