package ports

import (
	"context"

	"github.com/Gunvolt24/bol_export/internal/domain"
)

// ExportWriter — дописывание строк в дневной артефакт экспорта.
// Файл сохраняется всегда, даже при пустом наборе строк.
type ExportWriter interface {
	AppendRows(ctx context.Context, exportDate string, rows []domain.OrderItem) (string, error)
}
