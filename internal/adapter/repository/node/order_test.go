package node

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"brewlend-backend/internal/domain/order"
	"brewlend-backend/internal/infrastructure/ledger"
)

func TestNormalize_NumberAndStringForms(t *testing.T) {
	// Nodes disagree on whether uint256 fields arrive as numbers or strings;
	// both must decode to the same order.
	asNumbers := []byte(`{
		"orderId": 7, "borrower": "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		"lender": "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC",
		"nftContract": "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
		"tokenId": 42, "loanAmount": 100000000, "interestRate": 500,
		"duration": 2592000, "createdAt": 1700000000, "fundedAt": 1700003600,
		"repaymentDeadline": 1702595600, "status": 1
	}`)
	asStrings := []byte(`{
		"orderId": "7", "borrower": "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		"lender": "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC",
		"nftContract": "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
		"tokenId": "42", "loanAmount": "100000000", "interestRate": "500",
		"duration": "2592000", "createdAt": "1700000000", "fundedAt": "1700003600",
		"repaymentDeadline": "1702595600", "status": "1"
	}`)

	var a, b rawOrder
	if err := json.Unmarshal(asNumbers, &a); err != nil {
		t.Fatalf("unmarshal numbers: %v", err)
	}
	if err := json.Unmarshal(asStrings, &b); err != nil {
		t.Fatalf("unmarshal strings: %v", err)
	}

	oa, err := a.normalize()
	if err != nil {
		t.Fatalf("normalize numbers: %v", err)
	}
	ob, err := b.normalize()
	if err != nil {
		t.Fatalf("normalize strings: %v", err)
	}
	if !reflect.DeepEqual(oa, ob) {
		t.Fatalf("forms diverged:\n number form: %+v\n string form: %+v", oa, ob)
	}
	if oa.OrderID != 7 || oa.Status != order.StatusFunded || oa.Principal.Int64() != 100_000_000 {
		t.Fatalf("unexpected normalized order: %+v", oa)
	}
}

func TestNormalize_ZeroIDMeansNotFound(t *testing.T) {
	var raw rawOrder
	if err := json.Unmarshal([]byte(`{"orderId": 0, "status": 0}`), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, err := raw.normalize(); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestNormalize_StatusOutOfRange(t *testing.T) {
	var raw rawOrder
	if err := json.Unmarshal([]byte(`{"orderId": 1, "status": 9}`), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, err := raw.normalize(); err == nil {
		t.Fatal("expected error for status 9")
	}
}

// rpcHandler routes JSON-RPC methods to canned responses.
type rpcHandler func(method string, params []json.RawMessage) (any, map[string]any)

func startNode(t *testing.T, h rpcHandler) *ledger.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     int64             `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		result, rpcErr := h(req.Method, req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	c, err := ledger.NewClient(ledger.Config{BaseURL: srv.URL, ConnectTimeout: 500 * time.Millisecond}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func downNode(t *testing.T) *ledger.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	c, err := ledger.NewClient(ledger.Config{BaseURL: srv.URL, ConnectTimeout: 300 * time.Millisecond}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

// orderIDParam extracts the numeric order id from a lend_getOrder params list.
func orderIDParam(t *testing.T, params []json.RawMessage) uint64 {
	t.Helper()
	if len(params) == 0 {
		t.Fatal("lend_getOrder called without params")
	}
	var id uint64
	if err := json.Unmarshal(params[0], &id); err != nil {
		t.Fatalf("order id param: %v", err)
	}
	return id
}

func wireOrder(id uint64, status int, borrower string) map[string]any {
	return map[string]any{
		"orderId":           fmt.Sprintf("%d", id),
		"borrower":          borrower,
		"lender":            "0x0000000000000000000000000000000000000000",
		"nftContract":       "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
		"tokenId":           "1",
		"loanAmount":        "1000000000",
		"interestRate":      "500",
		"duration":          "2592000",
		"createdAt":         "1700000000",
		"fundedAt":          "0",
		"repaymentDeadline": "0",
		"status":            fmt.Sprintf("%d", status),
	}
}

func TestGetByID_Live(t *testing.T) {
	c := startNode(t, func(method string, params []json.RawMessage) (any, map[string]any) {
		switch method {
		case "lend_blockNumber":
			return "12", nil
		case "lend_getOrder":
			return wireOrder(5, 0, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), nil
		}
		t.Errorf("unexpected method %q", method)
		return nil, nil
	})

	repo := NewOrderRepository(c, 4)
	o, src, err := repo.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if src != order.SourceLive {
		t.Fatalf("source = %s, want live", src)
	}
	if o.OrderID != 5 || o.Status != order.StatusOpen {
		t.Fatalf("order = %+v", o)
	}
}

func TestGetByID_NotFoundFromNode(t *testing.T) {
	c := startNode(t, func(method string, _ []json.RawMessage) (any, map[string]any) {
		if method == "lend_blockNumber" {
			return "12", nil
		}
		// Contract returns the zero order for unknown ids.
		return wireOrder(0, 0, "0x0000000000000000000000000000000000000000"), nil
	})

	repo := NewOrderRepository(c, 4)
	_, src, err := repo.GetByID(context.Background(), 999)
	if !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if src != order.SourceLive {
		t.Fatalf("source = %s, want live", src)
	}
}

func TestGetByID_NodeDown_FundedPlaceholder(t *testing.T) {
	// The single-order placeholder must be a funded order: repayment quotes
	// are derived from it while degraded and need a funding timestamp.
	repo := NewOrderRepository(downNode(t), 4)

	o, src, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if src != order.SourceFallback {
		t.Fatalf("source = %s, want fallback", src)
	}
	if o.OrderID != 7 {
		t.Fatalf("placeholder must carry the requested id, got %d", o.OrderID)
	}
	if !o.Funded() || o.Status != order.StatusFunded || !o.HasLender() {
		t.Fatalf("placeholder not funded: %+v", o)
	}
	if o.RepaymentDeadline != o.FundedAt+int64(o.DurationSeconds) {
		t.Fatalf("deadline = %d, want fundedAt+duration", o.RepaymentDeadline)
	}

	again, _, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("second GetByID: %v", err)
	}
	if !reflect.DeepEqual(o, again) {
		t.Fatal("placeholder order must be identical across calls")
	}
}

func TestListOpen_Live_FansOutDetails(t *testing.T) {
	c := startNode(t, func(method string, params []json.RawMessage) (any, map[string]any) {
		switch method {
		case "lend_blockNumber":
			return "12", nil
		case "lend_listOpenOrders":
			return []string{"1", "2"}, nil
		case "lend_getOrder":
			if orderIDParam(t, params) == 1 {
				return wireOrder(1, 0, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), nil
			}
			return wireOrder(2, 0, "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"), nil
		}
		return nil, nil
	})

	repo := NewOrderRepository(c, 4)
	got, src, err := repo.ListOpen(context.Background())
	if err != nil {
		t.Fatalf("ListOpen: %v", err)
	}
	if src != order.SourceLive {
		t.Fatalf("source = %s, want live", src)
	}
	if len(got) != 2 || got[0].OrderID != 1 || got[1].OrderID != 2 {
		t.Fatalf("orders = %+v", got)
	}
}

func TestListOpen_NodeDown_DeterministicCatalog(t *testing.T) {
	repo := NewOrderRepository(downNode(t), 4)

	first, src, err := repo.ListOpen(context.Background())
	if err != nil {
		t.Fatalf("ListOpen: %v", err)
	}
	if src != order.SourceFallback {
		t.Fatalf("source = %s, want fallback", src)
	}
	if len(first) == 0 {
		t.Fatal("degraded catalog must not be empty")
	}
	for _, o := range first {
		if o.Status != order.StatusOpen {
			t.Fatalf("catalog order %d has status %s, want open", o.OrderID, o.Status)
		}
	}

	second, _, err := repo.ListOpen(context.Background())
	if err != nil {
		t.Fatalf("second ListOpen: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("fallback catalog must be identical across calls")
	}
}

func TestListOpen_PartialFailureIsolated(t *testing.T) {
	// Id 2's detail read fails server-side; its placeholder fills the slot
	// and the batch is flagged fallback, while id 1 stays live data.
	c := startNode(t, func(method string, params []json.RawMessage) (any, map[string]any) {
		switch method {
		case "lend_blockNumber":
			return "12", nil
		case "lend_listOpenOrders":
			return []string{"1", "2"}, nil
		case "lend_getOrder":
			if orderIDParam(t, params) == 2 {
				return nil, map[string]any{"code": -32000, "message": "state pruned"}
			}
			return wireOrder(1, 0, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), nil
		}
		return nil, nil
	})

	repo := NewOrderRepository(c, 4)
	got, src, err := repo.ListOpen(context.Background())
	if err != nil {
		t.Fatalf("ListOpen: %v", err)
	}
	if src != order.SourceFallback {
		t.Fatalf("source = %s, want fallback (one member degraded)", src)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].OrderID != 1 || got[1].OrderID != 2 {
		t.Fatalf("orders = %+v", got)
	}
}

func TestListByBorrower_FallbackStampsAddress(t *testing.T) {
	repo := NewOrderRepository(downNode(t), 4)
	addr := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

	got, src, err := repo.ListByBorrower(context.Background(), addr)
	if err != nil {
		t.Fatalf("ListByBorrower: %v", err)
	}
	if src != order.SourceFallback {
		t.Fatalf("source = %s, want fallback", src)
	}
	if len(got) == 0 || got[0].Borrower != addr {
		t.Fatalf("degraded borrower view must carry the requested address: %+v", got)
	}
}

func TestListByLender_FallbackStampsAddress(t *testing.T) {
	repo := NewOrderRepository(downNode(t), 4)
	addr := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

	got, src, err := repo.ListByLender(context.Background(), addr)
	if err != nil {
		t.Fatalf("ListByLender: %v", err)
	}
	if src != order.SourceFallback {
		t.Fatalf("source = %s, want fallback", src)
	}
	if len(got) == 0 || got[0].Lender != addr || got[0].Status != order.StatusFunded {
		t.Fatalf("degraded lender view: %+v", got)
	}
}

func TestPlatformFeeBps(t *testing.T) {
	c := startNode(t, func(method string, _ []json.RawMessage) (any, map[string]any) {
		if method == "lend_blockNumber" {
			return "12", nil
		}
		return "250", nil
	})
	repo := NewOrderRepository(c, 4)

	bps, src, err := repo.PlatformFeeBps(context.Background())
	if err != nil {
		t.Fatalf("PlatformFeeBps: %v", err)
	}
	if bps != 250 || src != order.SourceLive {
		t.Fatalf("bps = %d src = %s", bps, src)
	}

	down := NewOrderRepository(downNode(t), 4)
	bps, src, err = down.PlatformFeeBps(context.Background())
	if err != nil {
		t.Fatalf("degraded PlatformFeeBps: %v", err)
	}
	if bps != 100 || src != order.SourceFallback {
		t.Fatalf("degraded bps = %d src = %s", bps, src)
	}
}
