package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"brewlend-backend/internal/infrastructure/ledger"
)

func testRPCClient(t *testing.T, up bool) *ledger.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID int64 `json:"id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": "12"})
	}))
	if up {
		t.Cleanup(srv.Close)
	} else {
		srv.Close()
	}
	c, err := ledger.NewClient(ledger.Config{BaseURL: srv.URL, ConnectTimeout: 300 * time.Millisecond}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestHealth(t *testing.T) {
	h := NewHandler(nil)
	rec := doRequest(t, http.MethodGet, "/health", "", h.Health)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestStatus_NodeReachable(t *testing.T) {
	h := NewHandler(testRPCClient(t, true))
	rec := doRequest(t, http.MethodGet, "/api/status", "", h.Status)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["node"] != "reachable" {
		t.Fatalf("node = %v", body["node"])
	}
}

func TestStatus_NodeDown_StillOK(t *testing.T) {
	h := NewHandler(testRPCClient(t, false))
	rec := doRequest(t, http.MethodGet, "/api/status", "", h.Status)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200 even with the node down", rec.Code)
	}
	if body := decodeBody(t, rec); body["node"] != "unreachable" {
		t.Fatalf("node = %v", body["node"])
	}
}
