package ports

import "context"

// Logger — контракт логгера пайплайна. Контекст в каждом методе нужен
// для метаданных прогона (run_id, trace_id), которые реализация
// добавляет к записи сама.
type Logger interface {
	Infof(ctx context.Context, format string, args ...any)
	Warnf(ctx context.Context, format string, args ...any)
	Errorf(ctx context.Context, format string, args ...any)
}
