package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stocksync/backend/internal/domain"
	"github.com/stocksync/backend/internal/logging"
	"golang.org/x/time/rate"
)

// throttledCode is the GraphQL error code Shopify uses for rate limiting
const throttledCode = "THROTTLED"

// maxDetailLen caps how much of an error body ends up in logs and reports
const maxDetailLen = 512

// Client executes GraphQL operations against the Shopify Admin API.
// It paces outgoing requests but never retries; throttle signals are
// returned as domain.ThrottledError for the caller to absorb.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	accessToken string
	rateLimiter *rate.Limiter
}

// NewClient creates a new Admin API client
func NewClient(endpoint, accessToken string, requestsPerSecond float64, burst int) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		endpoint:    endpoint,
		accessToken: accessToken,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Endpoint builds the Admin GraphQL URL for a shop name and API version
func Endpoint(shop, apiVersion string) string {
	host := strings.TrimSpace(shop)
	if !strings.Contains(host, ".") {
		host += ".myshopify.com"
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", host, apiVersion)
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code       string          `json:"code"`
		RetryAfter json.RawMessage `json:"retryAfter"`
	} `json:"extensions"`
}

// Execute sends one operation and classifies the response
func (c *Client) Execute(ctx context.Context, op domain.Operation) (json.RawMessage, error) {
	logger := logging.FromContext(ctx)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	payload, err := json.Marshal(graphQLRequest{Query: op.Document, Variables: op.Variables})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", op.Name, err)
	}

	resp, err := c.doRequest(ctx, payload)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.TransportError{Operation: op.Name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Operation: op.Name, Err: fmt.Errorf("read body: %w", err)}
	}

	logger.Debug().
		Str("operation", op.Name).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("graphql response")

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &domain.ThrottledError{
			Operation:  op.Name,
			RetryAfter: parseRetryAfterHeader(resp.Header.Get("Retry-After")),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.RemoteError{
			Operation:  op.Name,
			StatusCode: resp.StatusCode,
			Detail:     truncate(string(body)),
		}
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return nil, &domain.TransportError{Operation: op.Name, Err: fmt.Errorf("decode response: %w", err)}
	}

	if len(gqlResp.Errors) > 0 {
		return nil, classifyErrors(op.Name, gqlResp.Errors)
	}
	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return nil, &domain.RemoteError{Operation: op.Name, Detail: "response has no data"}
	}

	return gqlResp.Data, nil
}

// doRequest executes an HTTP POST with the access token header
func (c *Client) doRequest(ctx context.Context, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("User-Agent", "stocksync/1.0")

	return c.httpClient.Do(req)
}

// classifyErrors maps GraphQL errors to the domain taxonomy. Any THROTTLED entry wins.
func classifyErrors(operation string, errs []graphQLError) error {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Extensions.Code == throttledCode {
			return &domain.ThrottledError{
				Operation:  operation,
				RetryAfter: parseRetryAfterMillis(e.Extensions.RetryAfter),
			}
		}
		messages = append(messages, e.Message)
	}
	return &domain.RemoteError{Operation: operation, Detail: truncate(strings.Join(messages, "; "))}
}

// parseRetryAfterMillis accepts a JSON number or numeric string of milliseconds
func parseRetryAfterMillis(raw json.RawMessage) time.Duration {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0
	}
	ms, err := strconv.ParseFloat(s, 64)
	if err != nil || ms <= 0 {
		return 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// parseRetryAfterHeader reads the HTTP Retry-After header, given in seconds
func parseRetryAfterHeader(v string) time.Duration {
	secs, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxDetailLen {
		return s[:maxDetailLen] + "..."
	}
	return s
}
