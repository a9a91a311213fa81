package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vbonduro/salonbook/internal/store"
)

// ReadWithFallback returns primary's result when it yields at least one
// element. A disabled store, an error or an empty result is logged and
// replaced by fallback(). Fallback data is never written back.
func ReadWithFallback[T any](
	ctx context.Context,
	logger *slog.Logger,
	name string,
	primary func(context.Context) ([]T, error),
	fallback func() []T,
) []T {
	items, err := primary(ctx)
	switch {
	case errors.Is(err, store.ErrDisabled):
		logger.Debug("store disabled, serving fallback", "read", name)
	case err != nil:
		logger.Warn("read failed, serving fallback", "read", name, "error", err)
	case len(items) == 0:
		logger.Debug("no stored records, serving fallback", "read", name)
	default:
		return items
	}
	return fallback()
}
