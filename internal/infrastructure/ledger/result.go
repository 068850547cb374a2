package ledger

import (
	"context"

	"go.uber.org/zap"
)

// Result carries a read value together with its provenance. Consumers must
// branch on Fallback before treating the value as authoritative.
type Result[T any] struct {
	Value    T
	Fallback bool
}

// Read performs a read call with the degraded-mode contract: liveness probe
// and call bounded by the connect timeout; any failure (probe timeout,
// transport error, node-side error) is replaced by the caller-supplied
// deterministic placeholder, flagged as fallback and logged out of band.
func Read[T any](ctx context.Context, c *Client, method string, params []any, fallback func() T) Result[T] {
	degrade := func(err error) Result[T] {
		fallbackTotal.WithLabelValues(method).Inc()
		c.log.Warn("ledger read degraded to fallback",
			zap.String("method", method),
			zap.Error(err),
		)
		return Result[T]{Value: fallback(), Fallback: true}
	}

	if err := c.Probe(ctx); err != nil {
		return degrade(err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	var out T
	if err := c.Call(callCtx, method, params, &out); err != nil {
		return degrade(err)
	}
	return Result[T]{Value: out}
}
