package ports

import "context"

// StateStore — леджер уже экспортированных позиций заказов.
type StateStore interface {
	// Load возвращает множество закоммиченных orderItemId.
	Load(ctx context.Context) (map[string]struct{}, error)
	// Commit дописывает новые идентификаторы; пустой список — no-op.
	Commit(ctx context.Context, newIDs []string) error
}
