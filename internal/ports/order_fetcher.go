package ports

import (
	"context"

	"github.com/Gunvolt24/bol_export/internal/domain"
)

// OrderFetcher — доступ к Retailer API: список заказов и детали одного заказа.
// Реализация сама занимается токенами, троттлингом и повторами.
type OrderFetcher interface {
	ListOrders(ctx context.Context, fulfilmentMethod string) (domain.OrderList, error)
	GetOrder(ctx context.Context, orderID string) (domain.OrderDetail, error)
}
