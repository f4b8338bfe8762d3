// Пакет bolapi — клиент Retailer API bol.com: жизненный цикл OAuth2-токена,
// троттлинг исходящих вызовов и повторы с экспоненциальным бэкоффом.
package bolapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Gunvolt24/bol_export/internal/domain"
	"github.com/Gunvolt24/bol_export/internal/ports"
	"github.com/Gunvolt24/bol_export/pkg/metrics"
	"github.com/Gunvolt24/bol_export/pkg/retry"
)

const defaultTimeout = 30 * time.Second

// Проверка, что Client удовлетворяет порту OrderFetcher.
var _ ports.OrderFetcher = (*Client)(nil)

// Config — параметры клиента.
type Config struct {
	APIBase      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Accept       string        // версионированный vendor media type
	Timeout      time.Duration // таймаут одного HTTP-запроса
	MinInterval  time.Duration // минимальный интервал между вызовами API
	Retry        retry.Policy
}

// Client — клиент Retailer API. Собирает TokenManager, RateLimiter и
// политику повторов; наружу отдаёт список заказов и детали заказа.
type Client struct {
	httpClient *http.Client
	apiBase    string
	accept     string
	tokens     *TokenManager
	limiter    *RateLimiter
	retry      retry.Policy
	log        ports.Logger
}

// New — конструктор.
func New(cfg Config, log ports.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	return &Client{
		httpClient: httpClient,
		apiBase:    strings.TrimRight(cfg.APIBase, "/"),
		accept:     cfg.Accept,
		tokens:     NewTokenManager(httpClient, cfg.TokenURL, cfg.ClientID, cfg.ClientSecret, cfg.Retry, log),
		limiter:    NewRateLimiter(cfg.MinInterval),
		retry:      cfg.Retry,
		log:        log,
	}
}

// TokenSource — доступ к менеджеру токенов (health check).
func (c *Client) TokenSource() ports.TokenSource { return c.tokens }

// ListOrders возвращает список заказов по режиму обработки.
func (c *Client) ListOrders(ctx context.Context, fulfilmentMethod string) (domain.OrderList, error) {
	c.log.Infof(ctx, "fetching orders list (fulfilment_method=%s)", fulfilmentMethod)

	u := fmt.Sprintf("%s/orders?fulfilment-method=%s", c.apiBase, url.QueryEscape(fulfilmentMethod))
	body, err := c.getJSON(ctx, "list_orders", u)
	if err != nil {
		return domain.OrderList{}, fmt.Errorf("list orders: %w", err)
	}

	list, err := domain.ParseOrderList(body)
	if err != nil {
		return domain.OrderList{}, fmt.Errorf("%w: %v", ErrAPI, err)
	}

	c.log.Infof(ctx, "fetched %d orders", len(list.Orders))
	return list, nil
}

// GetOrder возвращает детали одного заказа.
func (c *Client) GetOrder(ctx context.Context, orderID string) (domain.OrderDetail, error) {
	u := fmt.Sprintf("%s/orders/%s", c.apiBase, url.PathEscape(orderID))
	body, err := c.getJSON(ctx, "get_order", u)
	if err != nil {
		return domain.OrderDetail{}, fmt.Errorf("get order %s: %w", orderID, err)
	}

	detail, err := domain.ParseOrderDetail(body)
	if err != nil {
		return domain.OrderDetail{}, fmt.Errorf("%w: %v", ErrAPI, err)
	}
	return detail, nil
}

// getJSON — общий путь запроса: троттлинг, заголовки от TokenManager,
// повторы. 429 переводится в ErrRateLimit без повторов; остальные
// неуспехи после исчерпания повторов — в ErrAPI.
func (c *Client) getJSON(ctx context.Context, op, rawURL string) ([]byte, error) {
	p := c.retry
	p.OnRetry = func(attempt int, wait time.Duration, err error) {
		metrics.APIRetries.WithLabelValues(op).Inc()
		c.log.Warnf(ctx, "%s attempt %d failed: %v (retry in %s)", op, attempt, err, wait)
	}

	var body []byte
	err := p.Do(ctx, func() error {
		// Троттлинг на каждую попытку: повтор — тоже исходящий вызов.
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		b, getErr := c.doGet(ctx, rawURL)
		if getErr != nil {
			return getErr
		}
		body = b
		return nil
	}, func(err error) bool {
		return !errors.Is(err, ErrRateLimit) && !errors.Is(err, ErrAuth)
	})

	switch {
	case err == nil:
		metrics.APIRequests.WithLabelValues(op, "ok").Inc()
		return body, nil
	case errors.Is(err, ErrRateLimit):
		metrics.APIRequests.WithLabelValues(op, "rate_limited").Inc()
		c.log.Errorf(ctx, "%s: rate limit exceeded", op)
		return nil, err
	case errors.Is(err, ErrAuth):
		metrics.APIRequests.WithLabelValues(op, "error").Inc()
		return nil, err
	default:
		metrics.APIRequests.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrAPI, err)
	}
}

// doGet — один GET с заголовками, выведенными заново из TokenManager,
// чтобы обновление токена посреди запуска было прозрачным.
func (c *Client) doGet(ctx context.Context, rawURL string) ([]byte, error) {
	accessToken, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", c.accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w (status 429)", ErrRateLimit)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
