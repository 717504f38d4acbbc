package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"SettleKaro/internal/domain/dispute"
	"SettleKaro/pkg/correlation"
	"SettleKaro/pkg/metrics"
)

// Client is the REST surface of the dispute backend.
type Client interface {
	ListDisputes(ctx context.Context) ([]dispute.Dispute, error)
	GetDispute(ctx context.Context, id string) (*dispute.Dispute, error)
	CreateDispute(ctx context.Context, draft *dispute.Draft) (*dispute.Dispute, error)
	UpdateStatus(ctx context.Context, id string, status dispute.Status) error
	Mediate(ctx context.Context, id string) (MediationResult, error)
	Chat(ctx context.Context, id string, message string) (string, error)
	ChatHistory(ctx context.Context, id string) ([]dispute.ChatRecord, error)
	Health(ctx context.Context) (HealthStatus, error)
	Close() error
}

// MediationResult is the normalized mediation response.
type MediationResult struct {
	Analysis    string
	Suggestions dispute.Suggestions
}

type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// HTTPClient implements Client using HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	retryCfg   RetryConfig
}

// HTTPClientConfig holds configuration for HTTPClient.
type HTTPClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RetryAttempts  int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
	Transport      http.RoundTripper
}

// NewHTTPClient creates a new HTTP client for the dispute backend.
func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: metrics.InstrumentTransport(cfg.Transport),
		},
		retryCfg: RetryConfig{
			MaxAttempts: cfg.RetryAttempts,
			BaseDelay:   cfg.RetryBaseDelay,
			MaxDelay:    cfg.RetryMaxDelay,
		},
	}
}

func (c *HTTPClient) ListDisputes(ctx context.Context) ([]dispute.Dispute, error) {
	var out []dispute.Dispute
	err := DoWithRetry(ctx, c.retryCfg, func() error {
		out = nil
		return c.doJSON(ctx, "list_disputes", http.MethodGet, "/api/disputes", nil, &out)
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []dispute.Dispute{}
	}
	return out, nil
}

func (c *HTTPClient) GetDispute(ctx context.Context, id string) (*dispute.Dispute, error) {
	var out dispute.Dispute
	err := DoWithRetry(ctx, c.retryCfg, func() error {
		return c.doJSON(ctx, "get_dispute", http.MethodGet, disputePath(id, ""), nil, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type createResp struct {
	dispute.Dispute
	DisputeID string `json:"dispute_id,omitempty"`
}

// CreateDispute uploads the draft as multipart form data. It is never retried.
func (c *HTTPClient) CreateDispute(ctx context.Context, draft *dispute.Draft) (*dispute.Dispute, error) {
	body, contentType, err := encodeDraft(draft)
	if err != nil {
		return nil, err
	}

	var out createResp
	if err := c.do(ctx, "create_dispute", http.MethodPost, "/api/disputes", body, contentType, &out); err != nil {
		return nil, err
	}
	created := out.Dispute
	if created.ID == "" {
		created.ID = out.DisputeID
	}
	if created.ID == "" {
		return nil, fmt.Errorf("%w: created dispute has no id", ErrDecode)
	}
	return &created, nil
}

type statusReq struct {
	Status dispute.Status `json:"status"`
}

func (c *HTTPClient) UpdateStatus(ctx context.Context, id string, status dispute.Status) error {
	return DoWithRetry(ctx, c.retryCfg, func() error {
		return c.doJSON(ctx, "update_status", http.MethodPut, disputePath(id, "/status"), statusReq{Status: status}, nil)
	})
}

type mediationResp struct {
	Analysis              string              `json:"analysis"`
	Suggestions           dispute.Suggestions `json:"suggestions"`
	SettlementSuggestions dispute.Suggestions `json:"settlement_suggestions"`
}

// Mediate requests AI mediation. Either suggestion field name is accepted,
// suggestions wins when both are present.
func (c *HTTPClient) Mediate(ctx context.Context, id string) (MediationResult, error) {
	var out mediationResp
	if err := c.doJSON(ctx, "mediate", http.MethodPost, disputePath(id, "/mediate"), nil, &out); err != nil {
		return MediationResult{}, err
	}

	suggestions := out.Suggestions
	if suggestions == nil {
		suggestions = out.SettlementSuggestions
	}
	if suggestions == nil {
		suggestions = dispute.Suggestions{}
	}
	return MediationResult{Analysis: out.Analysis, Suggestions: suggestions}, nil
}

type chatReq struct {
	Message string `json:"message"`
}

type chatResp struct {
	Response string `json:"response"`
}

func (c *HTTPClient) Chat(ctx context.Context, id string, message string) (string, error) {
	var out chatResp
	if err := c.doJSON(ctx, "chat", http.MethodPost, disputePath(id, "/chat"), chatReq{Message: message}, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *HTTPClient) ChatHistory(ctx context.Context, id string) ([]dispute.ChatRecord, error) {
	var out []dispute.ChatRecord
	err := DoWithRetry(ctx, c.retryCfg, func() error {
		out = nil
		return c.doJSON(ctx, "chat_history", http.MethodGet, disputePath(id, "/chat/history"), nil, &out)
	})
	return out, err
}

func (c *HTTPClient) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	err := c.doJSON(ctx, "health", http.MethodGet, "/api/health", nil, &out)
	return out, err
}

// Close releases any resources held by the client.
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func disputePath(id, suffix string) string {
	return "/api/disputes/" + url.PathEscape(id) + suffix
}

func (c *HTTPClient) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, body, contentType, out)
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	ctx, corrID := correlation.Ensure(ctx)
	ctx = metrics.WithOperation(ctx, op)

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(correlation.HeaderName, corrID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrTransport, ctxErr)
		}
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return c.handleResponse(resp, out)
}

type errorResp struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *HTTPClient) handleResponse(resp *http.Response, out any) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ServerError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var e errorResp
	if json.Unmarshal(raw, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
