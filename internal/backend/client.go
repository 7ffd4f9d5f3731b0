// Package backend is the REST client for the project tracking backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/sitelog/internal/model"
)

// DefaultTimeout bounds every request when no other timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client is an authenticated client for the backend REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger overrides the default discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for baseURL. When tok is non-nil every request
// carries it as a bearer credential.
func NewClient(ctx context.Context, baseURL string, tok *oauth2.Token, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	hc := &http.Client{}
	if tok != nil {
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
	}
	hc.Timeout = c.timeout
	c.httpClient = hc
	return c
}

// do sends one request. body, when non-nil, is JSON encoded; out, when
// non-nil, receives the decoded JSON response. The raw body is returned too.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encoding request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "op", op, "request_id", requestID, "error", err)
		return nil, &NetworkError{Op: op, Err: err}
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("reading response body: %w", err)}
	}
	c.logger.Debug("request done", "op", op, "request_id", requestID,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Message: serverMessage(data)}
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, fmt.Errorf("%s: decoding response: %w", op, err)
		}
	}
	return data, nil
}

// FetchReports returns the hourly reports stored for date (YYYY-MM-DD).
func (c *Client) FetchReports(ctx context.Context, date string) ([]model.ExistingReport, error) {
	var reports []model.ExistingReport
	if _, err := c.do(ctx, http.MethodGet, "/hourly-report/"+url.PathEscape(date), nil, nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

type createResponse struct {
	ID      model.ID `json:"id"`
	Message string   `json:"message"`
}

// CreateReport stores a new hourly report and returns its server id.
func (c *Client) CreateReport(ctx context.Context, p model.ReportPayload) (model.ID, error) {
	var res createResponse
	if _, err := c.do(ctx, http.MethodPost, "/hourly-report", nil, p, &res); err != nil {
		return "", err
	}
	return res.ID, nil
}

// UpdateReport replaces every field of an existing hourly report.
func (c *Client) UpdateReport(ctx context.Context, id model.ID, p model.ReportPayload) error {
	_, err := c.do(ctx, http.MethodPut, "/hourly-report/"+url.PathEscape(id.String()), nil, p, nil)
	return err
}

// CheckReportDate asks whether a daily aggregate exists for date. project is
// sent as an additional filter; servers that ignore it answer by date only.
func (c *Client) CheckReportDate(ctx context.Context, date, project string) (model.DateCheck, error) {
	q := url.Values{"date": {date}}
	if project != "" {
		q.Set("projectName", project)
	}
	var res model.DateCheck
	_, err := c.do(ctx, http.MethodGet, "/daily-target/check-report-date", q, nil, &res)
	return res, err
}

// GetDailyTarget loads one daily aggregate record.
func (c *Client) GetDailyTarget(ctx context.Context, id model.ID) (model.DailyAggregate, error) {
	var rec model.DailyAggregate
	_, err := c.do(ctx, http.MethodGet, "/daily-target/"+url.PathEscape(id.String()), nil, nil, &rec)
	if err == nil && rec.ID == "" {
		rec.ID = id
	}
	return rec, err
}

// CreateDailyTarget stores a new daily aggregate record.
func (c *Client) CreateDailyTarget(ctx context.Context, rec model.DailyAggregate) (model.ID, error) {
	var res createResponse
	if _, err := c.do(ctx, http.MethodPost, "/daily-target", nil, rec, &res); err != nil {
		return "", err
	}
	return res.ID, nil
}

// UpdateDailyTarget replaces an existing daily aggregate record.
func (c *Client) UpdateDailyTarget(ctx context.Context, id model.ID, rec model.DailyAggregate) error {
	_, err := c.do(ctx, http.MethodPut, "/daily-target/"+url.PathEscape(id.String()), nil, rec, nil)
	return err
}

// AssignedProjects lists the projects an employee is assigned to.
func (c *Client) AssignedProjects(ctx context.Context, employeeID string) ([]model.Project, error) {
	data, err := c.do(ctx, http.MethodGet, "/employee/"+url.PathEscape(employeeID)+"/projects", nil, nil, nil)
	if err != nil {
		return nil, err
	}
	return DecodeProjects(data)
}
