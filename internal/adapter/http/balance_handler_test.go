package http

import (
	"context"
	"math/big"
	"net/http"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"brewlend-backend/internal/domain/order"
)

type tokenMock struct {
	fn func(ctx context.Context, tokenAddr, holder common.Address) (*big.Int, order.Source, error)
}

func (m *tokenMock) BalanceOf(ctx context.Context, tokenAddr, holder common.Address) (*big.Int, order.Source, error) {
	return m.fn(ctx, tokenAddr, holder)
}

const defaultTokenAddr = "0xDC9CFD00e9f6D066D9BcCd1A4aCCcEbc6EbCA71c"

func TestGetBalance_RequiresAddress(t *testing.T) {
	h := NewBalanceHandler(&tokenMock{}, common.HexToAddress(defaultTokenAddr))
	rec := doRequest(t, http.MethodGet, "/api/balance", "", h.GetBalance)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}

func TestGetBalance_RejectsBadAddresses(t *testing.T) {
	h := NewBalanceHandler(&tokenMock{}, common.HexToAddress(defaultTokenAddr))

	rec := doRequest(t, http.MethodGet, "/api/balance?address=nothex", "", h.GetBalance)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad holder: code = %d, want 400", rec.Code)
	}

	rec = doRequest(t, http.MethodGet, "/api/balance?address="+borrowerAddr+"&token=nothex", "", h.GetBalance)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad token: code = %d, want 400", rec.Code)
	}
}

func TestGetBalance_DefaultsToLoanToken(t *testing.T) {
	var gotToken common.Address
	h := NewBalanceHandler(&tokenMock{
		fn: func(ctx context.Context, tokenAddr, holder common.Address) (*big.Int, order.Source, error) {
			gotToken = tokenAddr
			return big.NewInt(42_000_000), order.SourceLive, nil
		},
	}, common.HexToAddress(defaultTokenAddr))

	rec := doRequest(t, http.MethodGet, "/api/balance?address="+borrowerAddr, "", h.GetBalance)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body.String())
	}
	if gotToken != common.HexToAddress(defaultTokenAddr) {
		t.Fatalf("token = %s, want configured default", gotToken.Hex())
	}
	body := decodeBody(t, rec)
	if body["balance"] != "42000000" || body["source"] != "live" {
		t.Fatalf("body = %v", body)
	}
	if body["address"] != strings.ToLower(borrowerAddr) {
		t.Fatalf("address = %v, want canonical lowercase", body["address"])
	}
}

func TestGetBalance_ExplicitToken(t *testing.T) {
	other := "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	var gotToken common.Address
	h := NewBalanceHandler(&tokenMock{
		fn: func(ctx context.Context, tokenAddr, holder common.Address) (*big.Int, order.Source, error) {
			gotToken = tokenAddr
			return big.NewInt(1), order.SourceFallback, nil
		},
	}, common.HexToAddress(defaultTokenAddr))

	rec := doRequest(t, http.MethodGet, "/api/balance?address="+borrowerAddr+"&token="+other, "", h.GetBalance)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if gotToken != common.HexToAddress(other) {
		t.Fatalf("token = %s", gotToken.Hex())
	}
	if body := decodeBody(t, rec); body["source"] != "fallback" {
		t.Fatalf("source = %v", body["source"])
	}
}
