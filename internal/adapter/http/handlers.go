package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"brewlend-backend/internal/infrastructure/ledger"
)

type Handler struct{ rpc *ledger.Client }

func NewHandler(rpc *ledger.Client) *Handler { return &Handler{rpc: rpc} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Status reports API liveness plus whether the ledger node answers its probe.
func (h *Handler) Status(c echo.Context) error {
	node := "reachable"
	if h.rpc != nil {
		if err := h.rpc.Probe(c.Request().Context()); err != nil {
			node = "unreachable"
		}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"time":    time.Now().UTC().Format(time.RFC3339Nano),
		"node":    node,
		"message": "BrewLend API is running",
	})
}
