package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"brewlend-backend/internal/infrastructure/ledger"
)

type ProxyHandler struct{ rpc *ledger.Client }

func NewProxyHandler(rpc *ledger.Client) *ProxyHandler { return &ProxyHandler{rpc: rpc} }

type proxyRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Method  string `json:"method" validate:"required"`
	Params  []any  `json:"params"`
}

type proxyError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type proxyResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *proxyError     `json:"error,omitempty"`
}

// Proxy serves POST /api/blockchain/proxy: forwards arbitrary read-only
// methods to the node. Methods that would need a node-held signing key get a
// fixed local rejection and are never forwarded.
func (h *ProxyHandler) Proxy(c echo.Context) error {
	var req proxyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	var result json.RawMessage
	err := h.rpc.Call(c.Request().Context(), req.Method, req.Params, &result)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, proxyResponse{JSONRPC: "2.0", ID: req.ID, Result: result})
	case errors.Is(err, ledger.ErrMethodNotAllowed):
		return c.JSON(http.StatusBadRequest, proxyResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &proxyError{Code: -32601, Message: "method requires a held signing key and is not available via proxy"},
		})
	default:
		var rpcErr *ledger.Error
		if errors.As(err, &rpcErr) {
			// Node answered with a structured error; relay it untouched.
			return c.JSON(http.StatusOK, proxyResponse{
				JSONRPC: "2.0",
				ID:      req.ID,
				Error:   &proxyError{Code: rpcErr.Code, Message: rpcErr.Message},
			})
		}
		return c.JSON(http.StatusInternalServerError, proxyResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &proxyError{Code: -32603, Message: "Internal JSON-RPC error"},
		})
	}
}
