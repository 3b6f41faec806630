package gateway

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"umrahportal/internal/config"
)

var (
	ErrNotFound     = errors.New("gateway: transaction not found")
	ErrUnauthorized = errors.New("gateway: unauthorized")
	ErrRejected     = errors.New("gateway: request rejected")
)

const maxAttempts = 4

// Client talks to the Snap and Core APIs of the gateway.
type Client struct {
	serverKey   string
	snapBase    string
	apiBase     string
	hc          *http.Client
	rl          *rate.Limiter
	backoffBase time.Duration

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// New builds a Client from config. reg may be nil to skip metric registration.
func New(cfg config.GatewayConfig, reg prometheus.Registerer) (*Client, error) {
	if cfg.ServerKey == "" {
		return nil, fmt.Errorf("gateway server key is required")
	}
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 5
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	c := &Client{
		serverKey: cfg.ServerKey,
		snapBase:  strings.TrimRight(cfg.SnapBaseURL, "/"),
		apiBase:   strings.TrimRight(cfg.APIBaseURL, "/"),
		hc: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		rl:          rate.NewLimiter(rate.Limit(rps), rps),
		backoffBase: 200 * time.Millisecond,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Outbound payment gateway requests by operation and outcome.",
		}, []string{"op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Outbound payment gateway latency including retries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if reg != nil {
		for _, col := range []prometheus.Collector{c.requests, c.latency} {
			if err := reg.Register(col); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// VerifySignature checks a notification against this client's server key.
func (c *Client) VerifySignature(n Notification) bool {
	return VerifySignature(n, c.serverKey)
}

type snapRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails *Customer `json:"customer_details,omitempty"`
	ItemDetails     []Item    `json:"item_details,omitempty"`
}

// CreateTransaction opens a Snap payment and returns its token and redirect URL.
func (c *Client) CreateTransaction(ctx context.Context, req TransactionRequest) (*Transaction, error) {
	if req.OrderID == "" || req.GrossAmount <= 0 {
		return nil, fmt.Errorf("%w: order id and positive amount are required", ErrRejected)
	}
	var body snapRequest
	body.TransactionDetails.OrderID = req.OrderID
	body.TransactionDetails.GrossAmount = req.GrossAmount
	if req.Customer != (Customer{}) {
		cust := req.Customer
		body.CustomerDetails = &cust
	}
	body.ItemDetails = req.Items

	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	var out Transaction
	if err := c.do(ctx, "create_transaction", http.MethodPost, c.snapBase+"/snap/v1/transactions", b, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("%w: empty snap token", ErrRejected)
	}
	return &out, nil
}

// Status polls the Core API for the current state of an order.
func (c *Client) Status(ctx context.Context, orderID string) (*TransactionStatus, error) {
	var out TransactionStatus
	u := c.apiBase + "/v2/" + url.PathEscape(orderID) + "/status"
	if err := c.do(ctx, "status", http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	// The Core API reports a missing order inside a 200 body.
	if out.StatusCode == "404" {
		return nil, ErrNotFound
	}
	return &out, nil
}

// do performs one logical request, retrying on transport errors, 429 and
// transient 5xx and honoring Retry-After. Each attempt waits on the rate limiter.
func (c *Client) do(ctx context.Context, op, method, u string, body []byte, out any) (err error) {
	start := time.Now()
	defer func() {
		c.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
		c.requests.WithLabelValues(op, outcome(err)).Inc()
	}()

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		// every attempt, retries included, spends a limiter token
		if err := c.rl.Wait(ctx); err != nil {
			return err
		}
		var rdr io.Reader
		if body != nil {
			rdr = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, rdr)
		if err != nil {
			return err
		}
		req.SetBasicAuth(c.serverKey, "")
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < maxAttempts-1 && sleepCtx(ctx, c.backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decode gateway response: %w", err)
			}
			return nil

		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case resp.StatusCode == http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = c.backoff(i)
			}
			lastErr = fmt.Errorf("gateway status %d", resp.StatusCode)
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return lastErr
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrRejected):
		return "rejected"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// sleepCtx waits for d or returns false if ctx is done first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After in seconds or HTTP-date form. Returns 0 if absent or invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from backoffBase per attempt with up to +50% jitter.
func (c *Client) backoff(i int) time.Duration {
	base := time.Duration(1<<i) * c.backoffBase
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
