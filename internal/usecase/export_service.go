// Пакет usecase — прикладная логика пайплайна экспорта (без знаний о транспорте).
package usecase

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/bol_export/internal/domain"
	"github.com/Gunvolt24/bol_export/internal/ports"
	"github.com/Gunvolt24/bol_export/pkg/metrics"
)

// RunResult — итог одного прогона экспорта.
type RunResult struct {
	ExportDate    string // дата, под которой шёл прогон (YYYY-MM-DD)
	OrdersListed  int    // заказов получено из списка
	OrdersSkipped int    // заказов пропущено (нет id или не удались детали)
	ItemsNew      int    // новых позиций (в экспорт и в леджер)
	ItemsSkipped  int    // позиций отброшено дедупликацией
	ExportPath    string // путь к артефакту; пуст при dry-run
	DryRun        bool
}

// ExportService — оркестратор: список заказов, детали, дедупликация,
// запись артефакта, коммит состояния.
type ExportService struct {
	fetcher ports.OrderFetcher
	state   ports.StateStore
	writer  ports.ExportWriter
	log     ports.Logger
	method  string           // fulfilment-method для списка заказов
	now     func() time.Time // подменяется в тестах
}

// NewExportService — DI-конструктор.
func NewExportService(
	fetcher ports.OrderFetcher,
	state ports.StateStore,
	writer ports.ExportWriter,
	log ports.Logger,
	fulfilmentMethod string,
) *ExportService {
	return &ExportService{
		fetcher: fetcher,
		state:   state,
		writer:  writer,
		log:     log,
		method:  fulfilmentMethod,
		now:     time.Now,
	}
}

// Run выполняет один прогон экспорта. exportDate в формате YYYY-MM-DD
// переопределяет дату прогона; пустая строка — сегодняшняя дата.
// Ошибка списка заказов фатальна; ошибка деталей одного заказа
// пропускает только этот заказ.
func (s *ExportService) Run(ctx context.Context, dryRun bool, exportDate string) (RunResult, error) {
	if exportDate == "" {
		exportDate = s.now().Format("2006-01-02")
	}
	res := RunResult{ExportDate: exportDate, DryRun: dryRun}

	ctx, span := otel.Tracer("usecase").Start(ctx, "export.run",
		trace.WithAttributes(
			attribute.String("export.date", exportDate),
			attribute.Bool("export.dry_run", dryRun),
		))
	defer span.End()

	processed, err := s.state.Load(ctx)
	if err != nil {
		return res, err
	}

	list, err := s.fetcher.ListOrders(ctx, s.method)
	if err != nil {
		return res, err
	}
	res.OrdersListed = len(list.Orders)
	s.log.Infof(ctx, "fetched %d orders (fulfilment-method=%s)", len(list.Orders), s.method)

	items, skippedOrders, skippedItems := s.collect(ctx, exportDate, list, processed)
	res.OrdersSkipped = skippedOrders
	res.ItemsNew = len(items)
	res.ItemsSkipped = skippedItems

	metrics.OrdersProcessed.Add(float64(len(list.Orders)))
	metrics.OrdersSkipped.Add(float64(skippedOrders))
	metrics.ItemsDeduplicated.Add(float64(skippedItems))

	if dryRun {
		for _, item := range items {
			s.log.Infof(ctx, "dry run: would export item %s (order %s)", item.OrderItemID, item.OrderID)
		}
		s.log.Infof(ctx, "dry run: %d new items would be exported, %d skipped as duplicates",
			len(items), skippedItems)
		return res, nil
	}

	path, err := s.writer.AppendRows(ctx, exportDate, items)
	if err != nil {
		return res, err
	}
	res.ExportPath = path
	metrics.ItemsExported.Add(float64(len(items)))

	if len(items) > 0 {
		ids := make([]string, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.OrderItemID)
		}
		if err := s.state.Commit(ctx, ids); err != nil {
			return res, err
		}
	}

	s.log.Infof(ctx, "export finished: %d new items, %d duplicates skipped, %d orders skipped",
		res.ItemsNew, res.ItemsSkipped, res.OrdersSkipped)
	return res, nil
}

// collect обходит заказы и собирает новые строки экспорта.
// Повторы внутри одного прогона отсекаются наравне с леджером.
func (s *ExportService) collect(
	ctx context.Context,
	exportDate string,
	list domain.OrderList,
	processed map[string]struct{},
) (items []domain.OrderItem, skippedOrders, skippedItems int) {
	seen := make(map[string]struct{})

	for _, summary := range list.Orders {
		if summary.OrderID == "" {
			s.log.Warnf(ctx, "skipping order without an id")
			skippedOrders++
			continue
		}

		detail, err := s.fetcher.GetOrder(ctx, summary.OrderID)
		if err != nil {
			s.log.Warnf(ctx, "skipping order %s: %v", summary.OrderID, err)
			skippedOrders++
			continue
		}

		for _, di := range detail.Items {
			if di.OrderItemID == "" {
				continue
			}
			if _, ok := processed[di.OrderItemID]; ok {
				skippedItems++
				continue
			}
			if _, ok := seen[di.OrderItemID]; ok {
				skippedItems++
				continue
			}
			seen[di.OrderItemID] = struct{}{}
			items = append(items, domain.NewOrderItem(exportDate, summary.OrderID, detail, di, s.method))
		}
	}
	return items, skippedOrders, skippedItems
}
