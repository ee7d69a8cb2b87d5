package portalapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/empleos/pkg/logging"
)

// NewClient instantiates a portal API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("portalapi: base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("portalapi: parse base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}

	listTimeout := cfg.ListTimeout
	if listTimeout <= 0 {
		listTimeout = defaultListTimeout
	}
	entityTimeout := cfg.EntityTimeout
	if entityTimeout <= 0 {
		entityTimeout = defaultEntityTimeout
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	return &Client{
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient:    httpClient,
		log:           log,
		listTimeout:   listTimeout,
		entityTimeout: entityTimeout,
		maxRetries:    maxRetries,
		retryBackoff:  backoff,
	}, nil
}

// ListJobs fetches a job listing. Only non-empty, non-zero params are sent.
func (c *Client) ListJobs(ctx context.Context, params ListParams) (ListResult, error) {
	var out ListResult
	if err := c.getJSON(ctx, c.buildListURL(params), c.listTimeout, &out); err != nil {
		return ListResult{}, err
	}
	return out, nil
}

// GetJob fetches a single job by ID. A 404 yields ErrNotFound.
func (c *Client) GetJob(ctx context.Context, id int64) (Job, error) {
	var out Job
	u := fmt.Sprintf("%s/jobs/%d", c.baseURL, id)
	if err := c.getJSON(ctx, u, c.entityTimeout, &out); err != nil {
		return Job{}, err
	}
	return out, nil
}

// GetCompany fetches a single company by ID. A 404 yields ErrNotFound.
func (c *Client) GetCompany(ctx context.Context, id int64) (Company, error) {
	var out Company
	u := fmt.Sprintf("%s/companies/%d", c.baseURL, id)
	if err := c.getJSON(ctx, u, c.entityTimeout, &out); err != nil {
		return Company{}, err
	}
	return out, nil
}

func (c *Client) buildListURL(params ListParams) string {
	values := url.Values{}

	if params.Page > 0 {
		values.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		values.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Title != "" {
		values.Set("titulo", params.Title)
	}
	if params.CompanyID != 0 {
		values.Set("empresa_id", strconv.FormatInt(params.CompanyID, 10))
	}
	if params.SalaryMin != 0 {
		values.Set("salario_min", strconv.FormatFloat(params.SalaryMin, 'f', -1, 64))
	}
	if params.SalaryMax != 0 {
		values.Set("salario_max", strconv.FormatFloat(params.SalaryMax, 'f', -1, 64))
	}
	if params.SortBy != "" {
		values.Set("ordenar_por", params.SortBy)
	}
	if params.Order != "" {
		values.Set("orden", params.Order)
	}

	u := c.baseURL + "/jobs"
	if encoded := values.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// getJSON performs a bounded, retried GET and decodes the JSON body into
// out. The retry loop is iterative and carries the attempt index: the n-th
// retry waits n*retryBackoff first. Only transient failures are retried.
func (c *Client) getJSON(ctx context.Context, u string, timeout time.Duration, out any) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Debug("retrying catalog request", "url", u, "attempt", attempt+1)
			if err := sleepCtx(ctx, time.Duration(attempt)*c.retryBackoff); err != nil {
				return err
			}
		}

		err := c.attempt(ctx, u, timeout, out)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		lastErr = err
	}

	return lastErr
}

func (c *Client) attempt(ctx context.Context, u string, timeout time.Duration, out any) error {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("portalapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Connection failure or attempt timeout; the retry loop decides.
		return &transientError{err: fmt.Errorf("portalapi: request failed: %w", err)}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("portalapi: GET %s: %w", u, ErrNotFound)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("portalapi: decode response: %w", err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
