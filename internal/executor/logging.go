package executor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/v0xg/remotedriver/internal/wire"
)

type requestIDKey struct{}

// WithRequestID attaches a correlation id to ctx
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id carried by ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Logging wraps an executor and logs every command it runs. Errors are
// returned exactly as the wrapped executor produced them.
type Logging struct {
	next   wire.Executor
	logger *zap.Logger
}

// WithLogging decorates next with command logging
func WithLogging(next wire.Executor, logger *zap.Logger) *Logging {
	return &Logging{next: next, logger: logger}
}

func (l *Logging) Execute(ctx context.Context, cmd wire.Command, params wire.Params) (json.RawMessage, error) {
	id := RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
		ctx = WithRequestID(ctx, id)
	}
	log := l.logger.With(zap.String("request_id", id), zap.String("command", string(cmd)))
	log.Debug("executing command", zap.Any("params", params))

	start := time.Now()
	value, err := l.next.Execute(ctx, cmd, params)
	elapsed := time.Since(start)
	if err != nil {
		log.Warn("command failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return value, err
	}

	log.Debug("command done", zap.Duration("elapsed", elapsed), zap.Int("response_bytes", len(value)))
	return value, nil
}
