//go:build !otel || gopls

package ctxmeta

import "context"

// Без тега `otel` trace/span в контексте не бывает: логгер просто
// не добавит эти поля.

func TraceIDFromContext(context.Context) (string, bool) { return "", false }

func SpanIDFromContext(context.Context) (string, bool) { return "", false }
