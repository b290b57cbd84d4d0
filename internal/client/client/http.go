package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/logging"
	"github.com/dmitrijs2005/expensekeeper/internal/netx"
)

const (
	maxErrorBody = 64 << 10
	maxImageBody = 16 << 20
)

// HTTPClient implements Client against the REST backend.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient validates baseURL and returns a client whose requests time
// out after timeout (zero disables the limit).
func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("server url %q must be absolute http(s)", baseURL)
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: netx.NewTransport(http.DefaultTransport),
		},
		logger: logger.With("component", "http-client"),
	}, nil
}

// Close drops idle keep-alive connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.Identity, error) {
	resp, err := c.do(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var id models.Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, &Error{Kind: KindTransport, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}
	return &id, nil
}

func (c *HTTPClient) Register(ctx context.Context, in models.Registration) (*models.TokenResponse, error) {
	return c.token(ctx, "/auth/register", in)
}

func (c *HTTPClient) Login(ctx context.Context, in models.Credentials) (*models.TokenResponse, error) {
	return c.token(ctx, "/auth/login", in)
}

func (c *HTTPClient) token(ctx context.Context, path string, body any) (*models.TokenResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var tr models.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, &Error{Kind: KindTransport, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}
	if tr.AccessToken == "" {
		return nil, &Error{Kind: KindTransport, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: empty access token", ErrMalformedResponse)}
	}
	return &tr, nil
}

// ListExpenses returns the caller's expenses in server order. A successful
// response whose body is not a well-formed JSON array yields an empty list.
// An array holding an element that does not decode as an expense is a
// malformed response.
func (c *HTTPClient) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	resp, err := c.do(ctx, http.MethodGet, "/expense", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, StatusCode: resp.StatusCode, Err: err}
	}

	items := []models.Expense{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' || !json.Valid(trimmed) {
		c.logger.Warn(ctx, "expense list is not an array, treating as empty", "bytes", len(raw))
		return items, nil
	}
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, &Error{Kind: KindTransport, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}
	return items, nil
}

func (c *HTTPClient) CreateExpense(ctx context.Context, in models.ExpenseInput) (*models.Expense, error) {
	return c.writeExpense(ctx, http.MethodPost, "/expense/", in)
}

func (c *HTTPClient) UpdateExpense(ctx context.Context, id int64, in models.ExpenseInput) (*models.Expense, error) {
	return c.writeExpense(ctx, http.MethodPut, expensePath(id), in)
}

// writeExpense treats any 2xx as success; an undecodable echo of the record
// is logged and returned as nil.
func (c *HTTPClient) writeExpense(ctx context.Context, method, path string, in models.ExpenseInput) (*models.Expense, error) {
	resp, err := c.do(ctx, method, path, in)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var e models.Expense
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		c.logger.Warn(ctx, "expense echo could not be decoded", "method", method, "error", err)
		return nil, nil
	}
	return &e, nil
}

func (c *HTTPClient) DeleteExpense(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, http.MethodDelete, expensePath(id), nil)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

func (c *HTTPClient) WeeklyGraph(ctx context.Context) (*models.Image, error) {
	resp, err := c.do(ctx, http.MethodGet, "/expenses/weekly-graph", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBody))
	if err != nil {
		return nil, &Error{Kind: KindTransport, StatusCode: resp.StatusCode, Err: err}
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return &models.Image{Data: data, ContentType: ct}, nil
}

func expensePath(id int64) string {
	return "/expenses/" + strconv.FormatInt(id, 10)
}

// do sends one request and returns the response only for 2xx statuses.
// The caller closes the body.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "error", err)
		return nil, &Error{Kind: KindTransport, Err: err}
	}
	c.logger.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, &Error{
		Kind:       kindForStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Reason:     detailOf(raw),
		Err:        errors.New(http.StatusText(resp.StatusCode)),
	}
}

// detailOf extracts the "detail" of an error body. String details are
// returned verbatim; validation arrays are reduced to their messages.
func detailOf(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
