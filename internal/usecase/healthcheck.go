package usecase

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/bol_export/internal/ports"
)

// CheckResult — итог одной диагностической проверки.
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthCheck — предполётная диагностика: аутентификация и доступность API.
type HealthCheck struct {
	tokens  ports.TokenSource
	fetcher ports.OrderFetcher
	log     ports.Logger
	method  string
}

// NewHealthCheck — DI-конструктор.
func NewHealthCheck(tokens ports.TokenSource, fetcher ports.OrderFetcher, log ports.Logger, fulfilmentMethod string) *HealthCheck {
	return &HealthCheck{tokens: tokens, fetcher: fetcher, log: log, method: fulfilmentMethod}
}

// Run прогоняет все проверки по порядку и возвращает их результаты.
// Провал одной проверки не останавливает остальные.
func (h *HealthCheck) Run(ctx context.Context) []CheckResult {
	results := []CheckResult{
		h.checkAuth(ctx),
		h.checkConnectivity(ctx),
	}
	for _, r := range results {
		if r.Passed {
			h.log.Infof(ctx, "check %s: ok (%s)", r.Name, r.Message)
		} else {
			h.log.Errorf(ctx, "check %s: failed (%s)", r.Name, r.Message)
		}
	}
	return results
}

// AllPassed — true, если провалов нет.
func AllPassed(results []CheckResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

func (h *HealthCheck) checkAuth(ctx context.Context) CheckResult {
	res := CheckResult{Name: "auth"}
	token, err := h.tokens.Token(ctx)
	if err != nil {
		res.Message = fmt.Sprintf("token request failed: %v", err)
		return res
	}
	if token == "" {
		res.Message = "token endpoint returned an empty token"
		return res
	}
	res.Passed = true
	res.Message = "access token obtained"
	return res
}

func (h *HealthCheck) checkConnectivity(ctx context.Context) CheckResult {
	res := CheckResult{Name: "connectivity"}
	list, err := h.fetcher.ListOrders(ctx, h.method)
	if err != nil {
		res.Message = fmt.Sprintf("order list request failed: %v", err)
		return res
	}
	res.Passed = true
	res.Message = fmt.Sprintf("order list reachable (%d orders)", len(list.Orders))
	return res
}
