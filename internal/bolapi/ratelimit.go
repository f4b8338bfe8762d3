package bolapi

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter — минимальный интервал между исходящими вызовами API.
// Токен-бакет на единицу: исполнение строго последовательное,
// поэтому координация между горутинами не нужна.
type RateLimiter struct {
	limiter *rate.Limiter

	// Now и Sleep подменяются в тестах, чтобы моделировать время без ожидания.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter — конструктор. minInterval <= 0 отключает троттлинг.
func NewRateLimiter(minInterval time.Duration) *RateLimiter {
	limit := rate.Limit(rate.Inf)
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(limit, 1),
		Now:     time.Now,
		Sleep:   sleepCtx,
	}
}

// Wait блокирует вызывающий поток, пока с предыдущего вызова
// не пройдёт минимальный интервал.
func (r *RateLimiter) Wait(ctx context.Context) error {
	now := r.Now()
	res := r.limiter.ReserveN(now, 1)
	if d := res.DelayFrom(now); d > 0 {
		return r.Sleep(ctx, d)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
