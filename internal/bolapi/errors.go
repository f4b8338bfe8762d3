package bolapi

import "errors"

// Таксономия ошибок клиента Retailer API.
// Проверяются через errors.Is; причины оборачиваются через %w.
var (
	// ErrAuth — грант токена не выполнен (неверные учётные данные
	// или сеть недоступна после всех повторов).
	ErrAuth = errors.New("bol auth failed")
	// ErrRateLimit — сервер ответил 429; повторов внутри клиента нет.
	ErrRateLimit = errors.New("bol rate limit exceeded")
	// ErrAPI — любой другой неуспешный статус или сетевая ошибка,
	// пережившая политику повторов.
	ErrAPI = errors.New("bol api request failed")
)
