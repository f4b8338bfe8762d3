package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Gunvolt24/bol_export/config"
)

// fakeBolAPI — минимальный стенд Retailer API: токены и два заказа.
func fakeBolAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"expires_in":   300,
		})
	})
	mux.HandleFunc("/retailer/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"orders": []map[string]string{{"orderId": "A-1"}, {"orderId": "A-2"}},
		})
	})
	mux.HandleFunc("/retailer/orders/A-1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"orderPlacedDateTime": "2026-08-28T10:00:00+02:00",
			"orderItems": []map[string]any{
				{"orderItemId": "item-1", "quantity": 2, "product": map[string]string{"ean": "871", "title": "First"}},
				{"orderItemId": "item-2", "quantity": 1, "product": map[string]string{"ean": "872", "title": "Second"}},
			},
		})
	})
	mux.HandleFunc("/retailer/orders/A-2", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"orderPlacedDateTime": "2026-08-28T11:00:00+02:00",
			"orderItems": []map[string]any{
				{"orderItemId": "item-3", "quantity": 5, "product": map[string]string{"ean": "873", "title": "Third"}},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	root := t.TempDir()
	return &config.Config{
		ClientID:         "client",
		ClientSecret:     "secret",
		FulfilmentMethod: "FBR",
		API: config.API{
			Base:        apiURL + "/retailer",
			TokenURL:    apiURL + "/token",
			Accept:      "application/vnd.retailer.v10+json",
			MinInterval: 0, // без троттлинга в тестах
		},
		Retry:  config.Retry{Attempts: 1},
		Export: config.Export{Dir: filepath.Join(root, "exports")},
		State:  config.State{Dir: filepath.Join(root, "state")},
		Logger: config.Logger{IsProd: false, Dir: filepath.Join(root, "logs")},
	}
}

func TestBootstrap_ExportIsIdempotent(t *testing.T) {
	srv := fakeBolAPI(t)
	cfg := testConfig(t, srv.URL)
	ctx := context.Background()

	application, cleanup, err := Bootstrap(ctx, cfg)
	require.NoError(t, err)
	defer cleanup()

	// Первый прогон: три новых позиции.
	first, err := application.Export.Run(ctx, false, "2026-08-28")
	require.NoError(t, err)
	require.Equal(t, 2, first.OrdersListed)
	require.Equal(t, 3, first.ItemsNew)
	require.Equal(t, 0, first.ItemsSkipped)

	// Второй прогон по тем же данным: всё отсечено дедупликацией.
	second, err := application.Export.Run(ctx, false, "2026-08-28")
	require.NoError(t, err)
	require.Equal(t, 0, second.ItemsNew)
	require.Equal(t, 3, second.ItemsSkipped)

	// Артефакт: заголовок и ровно три строки, без повторов.
	f, err := excelize.OpenFile(first.ExportPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("orders")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, "item-1", rows[1][3])
	require.Equal(t, "item-3", rows[3][3])

	// Леджер: три отсортированных идентификатора.
	data, err := os.ReadFile(filepath.Join(cfg.State.Dir, "processed_orders.json"))
	require.NoError(t, err)
	var ledger struct {
		ProcessedOrderItemIDs []string `json:"processed_order_item_ids"`
	}
	require.NoError(t, json.Unmarshal(data, &ledger))
	require.Equal(t, []string{"item-1", "item-2", "item-3"}, ledger.ProcessedOrderItemIDs)
}

func TestBootstrap_HealthCheckAgainstFakeAPI(t *testing.T) {
	srv := fakeBolAPI(t)
	cfg := testConfig(t, srv.URL)
	ctx := context.Background()

	application, cleanup, err := Bootstrap(ctx, cfg)
	require.NoError(t, err)
	defer cleanup()

	results := application.Health.Run(ctx)
	require.Len(t, results, 2)
	for _, r := range results {
		require.True(t, r.Passed, "check %s failed: %s", r.Name, r.Message)
	}
}

func TestBootstrap_DryRunLeavesNoArtifacts(t *testing.T) {
	srv := fakeBolAPI(t)
	cfg := testConfig(t, srv.URL)
	ctx := context.Background()

	application, cleanup, err := Bootstrap(ctx, cfg)
	require.NoError(t, err)
	defer cleanup()

	res, err := application.Export.Run(ctx, true, "2026-08-28")
	require.NoError(t, err)
	require.Equal(t, 3, res.ItemsNew)
	require.Empty(t, res.ExportPath)

	entries, err := os.ReadDir(cfg.Export.Dir)
	require.NoError(t, err)
	require.Empty(t, entries)

	data, err := os.ReadFile(filepath.Join(cfg.State.Dir, "processed_orders.json"))
	require.NoError(t, err)
	var ledger struct {
		ProcessedOrderItemIDs []string `json:"processed_order_item_ids"`
	}
	require.NoError(t, json.Unmarshal(data, &ledger))
	require.Empty(t, ledger.ProcessedOrderItemIDs)
}
