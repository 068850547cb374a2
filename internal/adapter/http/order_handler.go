package http

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"brewlend-backend/internal/domain/order"
	"brewlend-backend/internal/usecase/lifecycle"
	"brewlend-backend/internal/usecase/orderindex"
)

type OrderHandler struct {
	orders    order.Repository
	lifecycle *lifecycle.Usecase
	index     *orderindex.Index
}

func NewOrderHandler(orders order.Repository, lc *lifecycle.Usecase, ix *orderindex.Index) *OrderHandler {
	return &OrderHandler{orders: orders, lifecycle: lc, index: ix}
}

type ordersResponse struct {
	Orders []orderDTO `json:"orders"`
	Source string     `json:"source"`
}

// ListOrders serves GET /api/orders?borrower=0x..|lender=0x..
func (h *OrderHandler) ListOrders(c echo.Context) error {
	borrower := c.QueryParam("borrower")
	lender := c.QueryParam("lender")
	if borrower == "" && lender == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "either borrower or lender parameter is required"})
	}

	var (
		orders []order.Order
		src    order.Source
		err    error
	)
	switch {
	case borrower != "":
		if !reHexAddr.MatchString(borrower) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid borrower address"})
		}
		orders, src, err = h.orders.ListByBorrower(c.Request().Context(), common.HexToAddress(borrower))
	default:
		if !reHexAddr.MatchString(lender) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lender address"})
		}
		orders, src, err = h.orders.ListByLender(c.Request().Context(), common.HexToAddress(lender))
	}
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, ordersResponse{Orders: toOrderDTOs(orders), Source: string(src)})
}

// ListAvailable serves GET /api/orders/available: every order still open to
// lend against.
func (h *OrderHandler) ListAvailable(c echo.Context) error {
	orders, src, err := h.orders.ListOpen(c.Request().Context())
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, ordersResponse{Orders: toOrderDTOs(orders), Source: string(src)})
}

// GetOrder serves GET /api/orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, ok := parseOrderID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid order id"})
	}
	o, src, err := h.orders.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"order":  toOrderDTO(o),
		"source": string(src),
	})
}

// GetRepayment serves GET /api/orders/:id/repayment, the amount due if the
// borrower repaid right now.
func (h *OrderHandler) GetRepayment(c echo.Context) error {
	id, ok := parseOrderID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid order id"})
	}
	bd, src, err := h.lifecycle.RepaymentBreakdown(c.Request().Context(), id)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, toRepaymentDTO(bd, src))
}

// MyOrders serves GET /api/my-orders?address=0x..&refresh=true: order ids
// where the address is borrower or lender, from the rebuildable projection.
func (h *OrderHandler) MyOrders(c echo.Context) error {
	addr := c.QueryParam("address")
	if addr == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "address parameter is required"})
	}
	if !reHexAddr.MatchString(addr) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address"})
	}

	rebuiltAt, src := h.index.RebuiltAt()
	if rebuiltAt.IsZero() || c.QueryParam("refresh") == "true" {
		var err error
		if src, err = h.index.Rebuild(c.Request().Context()); err != nil {
			return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		}
		rebuiltAt, _ = h.index.RebuiltAt()
	}

	canonical := order.CanonicalAddress(common.HexToAddress(addr))
	return c.JSON(http.StatusOK, map[string]any{
		"address":   canonical,
		"borrowed":  h.index.OrdersFor(addr, orderindex.RoleBorrower),
		"lent":      h.index.OrdersFor(addr, orderindex.RoleLender),
		"source":    string(src),
		"rebuiltAt": rebuiltAt.UTC(),
	})
}

type actionReq struct {
	Caller string `json:"caller" validate:"required,hexaddr"`
}

// SubmitAction serves POST /api/orders/:id/{fund|repay|cancel|claim}. Guards
// run here, against the live contract view, before anything is dispatched.
func (h *OrderHandler) SubmitAction(action string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseOrderID(c.Param("id"))
		if !ok {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid order id"})
		}
		var req actionReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "validation failed",
				Details: ToFieldErrors(err),
			})
		}
		caller := common.HexToAddress(req.Caller)

		var (
			res *lifecycle.ActionResult
			err error
		)
		ctx := c.Request().Context()
		switch action {
		case "fund":
			res, err = h.lifecycle.Fund(ctx, id, caller)
		case "repay":
			res, err = h.lifecycle.Repay(ctx, id, caller)
		case "cancel":
			res, err = h.lifecycle.Cancel(ctx, id, caller)
		case "claim":
			res, err = h.lifecycle.ClaimDefault(ctx, id, caller)
		default:
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown action"})
		}
		if err != nil {
			return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		}

		resp := actionResponse{
			OrderID: strconv.FormatUint(res.OrderID, 10),
			Action:  res.Action,
			TxHash:  res.TxHash,
		}
		if res.Breakdown != nil {
			dto := toRepaymentDTO(res.Breakdown, order.SourceLive)
			resp.Repayment = &dto
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func parseOrderID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
