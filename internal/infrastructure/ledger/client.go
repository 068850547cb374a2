package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Method names the node will never execute on our behalf because they need a
// key held by the node. Such calls get a fixed local rejection instead of a
// forward.
var deniedMethods = map[string]struct{}{
	"eth_sendTransaction": {},
	"eth_sign":            {},
	"eth_signTransaction": {},
	"personal_sign":       {},
	"account_unlock":      {},
}

// probeMethod is the trivial liveness check issued before read calls.
const probeMethod = "lend_blockNumber"

const defaultConnectTimeout = 5 * time.Second

var (
	// ErrUnavailable wraps transport failures and probe timeouts. Write
	// paths surface it verbatim; read paths absorb it into a fallback.
	ErrUnavailable = errors.New("ledger: node unavailable")

	// ErrMethodNotAllowed is the fixed rejection for denylisted methods.
	ErrMethodNotAllowed = errors.New("ledger: method requires a node-held signing key")
)

// Config controls how the Client reaches the ledger node.
type Config struct {
	BaseURL string
	// ConnectTimeout bounds the liveness probe and each logical call.
	// Zero means the 5s default.
	ConnectTimeout time.Duration
}

// Client is a minimal JSON-RPC 2.0 client for the ledger node. It is safe
// for concurrent use; the underlying http.Client pools connections.
type Client struct {
	baseURL        string
	http           *http.Client
	connectTimeout time.Duration
	log            *zap.Logger
	nextID         atomic.Int64
}

func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("ledger: base url is required")
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:        baseURL,
		http:           &http.Client{Timeout: timeout},
		connectTimeout: timeout,
		log:            log,
	}, nil
}

// ConnectTimeout is the per-logical-call deadline.
func (c *Client) ConnectTimeout() time.Duration { return c.connectTimeout }

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *Error          `json:"error"`
}

// Error is the structured {code,message} error the node returns.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Data) > 0 {
		return fmt.Sprintf("rpc error %d: %s: %s", e.Code, e.Message, string(e.Data))
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Call performs one JSON-RPC request. Denylisted methods are rejected
// locally. Transport failures come back wrapped in ErrUnavailable; node-side
// errors come back as *Error.
func (c *Client) Call(ctx context.Context, method string, params []any, result any) error {
	if c == nil {
		return fmt.Errorf("ledger: client is nil")
	}
	if _, denied := deniedMethods[method]; denied {
		return ErrMethodNotAllowed
	}

	start := time.Now()
	err := c.do(ctx, method, params, result)
	callDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	return err
}

func (c *Client) do(ctx context.Context, method string, params []any, result any) error {
	reqBody := rpcRequest{JSONRPC: "2.0", ID: c.nextID.Add(1), Method: method, Params: params}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return fmt.Errorf("ledger: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, &buf)
	if err != nil {
		return fmt.Errorf("ledger: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %s", ErrUnavailable, resp.Status)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("ledger: decode result: %w", err)
		}
	}
	return nil
}

// Probe issues the trivial liveness check, bounded by the connect timeout.
func (c *Client) Probe(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()
	var ignored json.RawMessage
	return c.Call(probeCtx, probeMethod, nil, &ignored)
}

// Submit dispatches a state-mutating method. No fallback: money-moving
// operations must fail loudly, so every error is surfaced to the caller.
func (c *Client) Submit(ctx context.Context, method string, params []any, result any) error {
	callCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()
	return c.Call(callCtx, method, params, result)
}
