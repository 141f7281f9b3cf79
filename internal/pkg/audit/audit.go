package audit

import (
	"context"
	"log/slog"

	"github.com/jkgulay/payroll-system-sub001/internal/pkg/jwt"
)

// Emitter writes discrete audit facts to the structured log. Persistence of
// the audit trail lives outside this service; the engine only emits.
type Emitter struct {
	logger *slog.Logger
}

func NewEmitter(logger *slog.Logger) *Emitter {
	return &Emitter{logger: logger.With(slog.String("channel", "audit"))}
}

// Fact describes one state transition or ledger mutation.
type Fact struct {
	Action   string
	Entity   string
	EntityID string
	Before   any
	After    any
	Detail   map[string]any
}

func (e *Emitter) Emit(ctx context.Context, f Fact) {
	attrs := []any{
		slog.String("actor", jwt.ActorFromContext(ctx)),
		slog.String("action", f.Action),
		slog.String("entity", f.Entity),
		slog.String("entity_id", f.EntityID),
	}
	if f.Before != nil {
		attrs = append(attrs, slog.Any("before", f.Before))
	}
	if f.After != nil {
		attrs = append(attrs, slog.Any("after", f.After))
	}
	for k, v := range f.Detail {
		attrs = append(attrs, slog.Any(k, v))
	}
	e.logger.InfoContext(ctx, "audit", attrs...)
}

// Warn logs a non-fatal engine condition worth an operator's attention, such
// as an approximate ledger reversal.
func (e *Emitter) Warn(ctx context.Context, msg string, detail map[string]any) {
	attrs := []any{slog.String("actor", jwt.ActorFromContext(ctx))}
	for k, v := range detail {
		attrs = append(attrs, slog.Any(k, v))
	}
	e.logger.WarnContext(ctx, msg, attrs...)
}
