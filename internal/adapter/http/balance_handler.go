package http

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"brewlend-backend/internal/domain/order"
	"brewlend-backend/internal/domain/token"
)

type BalanceHandler struct {
	tokens       token.Repository
	defaultToken common.Address
}

func NewBalanceHandler(tokens token.Repository, defaultToken common.Address) *BalanceHandler {
	return &BalanceHandler{tokens: tokens, defaultToken: defaultToken}
}

// GetBalance serves GET /api/balance?address=0x..&token=0x..; token falls
// back to the configured loan currency.
func (h *BalanceHandler) GetBalance(c echo.Context) error {
	addr := c.QueryParam("address")
	if addr == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "address parameter is required"})
	}
	if !reHexAddr.MatchString(addr) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address"})
	}

	tokenAddr := h.defaultToken
	if raw := c.QueryParam("token"); raw != "" {
		if !reHexAddr.MatchString(raw) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid token address"})
		}
		tokenAddr = common.HexToAddress(raw)
	}

	holder := common.HexToAddress(addr)
	balance, src, err := h.tokens.BalanceOf(c.Request().Context(), tokenAddr, holder)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"address": order.CanonicalAddress(holder),
		"token":   order.CanonicalAddress(tokenAddr),
		"balance": balance.String(),
		"source":  string(src),
	})
}
