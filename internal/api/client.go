// Package api is the client for the backing task/stats REST API. Timestamps
// cross the wire as RFC 3339 date strings and are parsed back into time
// values during decoding; callers never see raw strings.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"planner-app/internal/cache"
	"planner-app/internal/models"
)

type ClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
	Breaker        *cache.CircuitBreakerConfig
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:        "http://localhost:8080",
		Timeout:        10 * time.Second,
		RequestsPerSec: 10,
		Burst:          5,
	}
}

// Client wraps the HTTP calls with a token-bucket rate limit and a circuit
// breaker so a struggling backend degrades to fast errors instead of
// piling up requests.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	breaker *cache.CircuitBreaker
	log     zerolog.Logger
}

func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg = DefaultClientConfig()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		breaker: cache.NewCircuitBreaker(cfg.Breaker),
		log:     logger.With().Str("component", "api_client").Logger(),
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type tasksPage struct {
	Tasks      []models.Task     `json:"tasks"`
	Pagination models.Pagination `json:"pagination"`
}

// ListTasks fetches a page of tasks with the given server-side filters.
func (c *Client) ListTasks(ctx context.Context, params models.ListTasksParams) ([]models.Task, models.Pagination, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Status != "" {
		q.Set("status", string(params.Status))
	}
	if params.Category != "" && params.Category != models.CategoryAll {
		q.Set("category", string(params.Category))
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.SortBy != "" {
		q.Set("sortBy", params.SortBy)
	}
	if params.SortOrder != "" {
		q.Set("sortOrder", params.SortOrder)
	}

	path := "/api/v1/tasks"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page tasksPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, models.Pagination{}, err
	}
	return page.Tasks, page.Pagination, nil
}

func (c *Client) CreateTask(ctx context.Context, req models.CreateTaskRequest) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodPost, "/api/v1/tasks", req, &task)
	return task, err
}

func (c *Client) UpdateTask(ctx context.Context, id uuid.UUID, req models.UpdateTaskRequest) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodPut, "/api/v1/tasks/"+id.String(), req, &task)
	return task, err
}

func (c *Client) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status models.Status) (models.Task, error) {
	var task models.Task
	body := models.UpdateStatusRequest{Status: status}
	err := c.do(ctx, http.MethodPut, "/api/v1/tasks/"+id.String()+"/status", body, &task)
	return task, err
}

func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+id.String(), nil, nil)
}

func (c *Client) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := c.do(ctx, http.MethodGet, "/api/v1/stats/dashboard", nil, &stats)
	return stats, err
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	op := fmt.Sprintf("%s %s", method, path)

	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Op: op, Err: err}
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var transportErr *TransportError
	err = c.breaker.Execute(func() error {
		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			transportErr = &TransportError{Op: op, Err: err}
			return err
		}
		defer resp.Body.Close()

		c.log.Debug().
			Str("op", op).
			Int("status", resp.StatusCode).
			Dur("elapsed", time.Since(start)).
			Msg("api request")

		if resp.StatusCode == http.StatusNoContent {
			return nil
		}

		var env envelope
		if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr != nil && decodeErr != io.EOF {
			transportErr = &TransportError{Op: op, StatusCode: resp.StatusCode, Err: decodeErr}
			return decodeErr
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
			transportErr = &TransportError{
				Op:         op,
				StatusCode: resp.StatusCode,
				Message:    env.Message,
			}
			return transportErr
		}

		if dest != nil && len(env.Data) > 0 {
			if decodeErr := json.Unmarshal(env.Data, dest); decodeErr != nil {
				transportErr = &TransportError{Op: op, StatusCode: resp.StatusCode, Err: decodeErr}
				return decodeErr
			}
		}
		return nil
	})

	if err != nil {
		if transportErr == nil {
			// Breaker refused the call without issuing a request.
			transportErr = &TransportError{Op: op, Err: err}
		}
		c.log.Warn().Str("op", op).Err(transportErr).Msg("api request failed")
		return transportErr
	}
	return nil
}
