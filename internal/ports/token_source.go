package ports

import "context"

// TokenSource — получение валидного access-токена (с кэшированием внутри).
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
