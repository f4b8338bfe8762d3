// Пакет retry — повтор операций с экспоненциальным бэкоффом.
// Предикат повторяемости и расписание ожидания задаются вызывающей стороной,
// поэтому разные точки вызова (грант токена, запросы к API) переиспользуют
// один механизм с разными правилами.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Дефолты соответствуют контракту клиента bol.com:
// 3 попытки, ожидание от 2 до 10 секунд.
const (
	DefaultAttempts = 3
	DefaultMinWait  = 2 * time.Second
	DefaultMaxWait  = 10 * time.Second
)

// Policy — параметры повторов. Нулевое значение использует дефолты.
type Policy struct {
	Attempts int           // всего попыток, включая первую
	MinWait  time.Duration // ожидание перед первым повтором
	MaxWait  time.Duration // верхняя граница ожидания

	// Sleep подменяется в тестах, чтобы не ждать реальное время.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry вызывается перед каждым ожиданием (логирование, метрики).
	OnRetry func(attempt int, wait time.Duration, err error)
}

// Do выполняет op, повторяя её при повторяемых ошибках.
// Ожидание — перед каждым повтором, не перед первой попыткой.
// Неповторяемая ошибка (retryable вернул false) отдаётся сразу;
// после исчерпания попыток возвращается последняя ошибка.
func (p Policy) Do(ctx context.Context, op func() error, retryable func(error) bool) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	minWait := p.MinWait
	if minWait <= 0 {
		minWait = DefaultMinWait
	}
	maxWait := p.MaxWait
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	// Детерминированное расписание: 2s, 4s, 8s, ... с потолком maxWait.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = minWait
	bo.MaxInterval = maxWait
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.Reset()

	var err error
	for attempt := 1; ; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
		if attempt >= attempts {
			return err
		}

		wait := bo.NextBackOff()
		if wait > maxWait {
			wait = maxWait
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, wait, err)
		}
		if sleepErr := sleep(ctx, wait); sleepErr != nil {
			// Контекст отменён во время ожидания — отдаём последнюю ошибку операции.
			return err
		}
	}
}

// sleepCtx ждёт d или останавливается по контексту.
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
