// Пакет ctxmeta — нейтральный слой для метаданных запуска пайплайна,
// которые прокидываются через context.Context (run_id, trace_id и т.д.).
// Идея: оркестратор и логгер зависят от небольшого общего пакета, но не друг от друга.
package ctxmeta

import "context"

type ctxKey string

const (
	// Ключи контекста (неэкспортируемые типы — чтобы избежать коллизий).
	KeyRunID ctxKey = "run_id"
)

// WithRunID кладёт run_id в контекст (если пусто — ничего не делает).
func WithRunID(ctx context.Context, runID string) context.Context {
	if ctx == nil || runID == "" {
		return ctx
	}
	return context.WithValue(ctx, KeyRunID, runID)
}

// RunIDFromContext достаёт run_id из контекста.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(KeyRunID).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
