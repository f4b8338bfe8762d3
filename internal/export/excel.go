// Пакет export пишет дневные xlsx-выгрузки: один файл на дату экспорта,
// строки дописываются в конец при каждом запуске.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/Gunvolt24/bol_export/internal/domain"
	"github.com/Gunvolt24/bol_export/internal/ports"
)

const sheetName = "orders"

var headers = []string{
	"export_date",
	"order_id",
	"order_date_time",
	"order_item_id",
	"ean",
	"title",
	"quantity",
	"fulfilment_method",
}

// Ширины колонок подобраны под типичное содержимое.
var columnWidths = map[string]float64{
	"A": 12, "B": 15, "C": 20, "D": 18, "E": 15, "F": 40, "G": 10, "H": 18,
}

// Проверка, что ExcelWriter удовлетворяет порту ExportWriter.
var _ ports.ExportWriter = (*ExcelWriter)(nil)

// ExcelWriter — писатель дневных файлов orders_YYYY-MM-DD.xlsx.
type ExcelWriter struct {
	dir string
	log ports.Logger
}

// NewExcelWriter — конструктор. Создаёт каталог выгрузок, если его нет.
func NewExcelWriter(exportDir string, log ports.Logger) (*ExcelWriter, error) {
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &ExcelWriter{dir: exportDir, log: log}, nil
}

// AppendRows дописывает строки в файл текущей даты и возвращает его путь.
// Файл сохраняется даже при пустом rows, чтобы артефакт существовал
// для каждого запуска.
func (w *ExcelWriter) AppendRows(ctx context.Context, exportDate string, rows []domain.OrderItem) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("orders_%s.xlsx", exportDate))

	f, created, err := w.open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	next, err := nextFreeRow(f)
	if err != nil {
		return "", err
	}

	for i, row := range rows {
		if err := writeRow(f, next+i, row); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save export file: %w", err)
	}

	if created {
		w.log.Infof(ctx, "created export file: %s", path)
	}
	w.log.Infof(ctx, "appended %d rows to %s", len(rows), path)
	return path, nil
}

// open возвращает открытый файл и признак, что он создан только что.
func (w *ExcelWriter) open(path string) (*excelize.File, bool, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("open export file: %w", err)
		}
		return f, false, nil
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		f.Close()
		return nil, false, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeHeader(f); err != nil {
		f.Close()
		return nil, false, err
	}
	return f, true, nil
}

// writeHeader — жирный белый текст на синей заливке, по центру.
func writeHeader(f *excelize.File) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"366092"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header cell: %w", err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", last, style); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}

// nextFreeRow — номер первой пустой строки после уже записанных.
func nextFreeRow(f *excelize.File) (int, error) {
	existing, err := f.GetRows(sheetName)
	if err != nil {
		return 0, fmt.Errorf("read export sheet: %w", err)
	}
	return len(existing) + 1, nil
}

func writeRow(f *excelize.File, rowNum int, item domain.OrderItem) error {
	values := []interface{}{
		item.ExportDate,
		item.OrderID,
		item.OrderDateTime,
		item.OrderItemID,
		item.EAN,
		item.Title,
		nil,
		item.FulfilmentMethod,
	}
	if item.Quantity != nil {
		values[6] = *item.Quantity
	}

	for i, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return fmt.Errorf("row cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("write row cell: %w", err)
		}
	}
	return nil
}
