package quality

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/MrSnakeDoc/qualityhub/internal/domain"
	"github.com/MrSnakeDoc/qualityhub/internal/logger"
)

const (
	// SecurityDashboardPath serves the issue counters of a component.
	SecurityDashboardPath = "/api/v3/organizations/{componentKey}/security/dashboard"
	// RepositorySearchPath serves the per-repository analyses of a component.
	RepositorySearchPath = "/api/v3/analysis/organizations/{componentKey}/repositories"

	DefaultRequestTimeout = 10 * time.Second

	contentTypeJSON       = "application/json"
	componentKeyPathParam = "componentKey"
)

var (
	// ErrUnexpectedStatus is returned when an instance answers anything but 200.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrMissingData is returned when a payload lacks its data field.
	ErrMissingData = errors.New("payload has no data")
)

type securityDashboardResponse struct {
	Data *domain.SecuritySummary `json:"data"`
}

type repositorySearchResponse struct {
	Data *[]domain.RepositoryAnalysis `json:"data"`
}

// Client calls the API of a code-quality instance.
// It is safe for concurrent use and never retries.
type Client struct {
	http   *resty.Client
	logger logger.Logger
}

// NewClient creates a client. timeout bounds every call in addition to
// the caller's context; zero means DefaultRequestTimeout.
func NewClient(log logger.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	rc := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetLogger(log).
		SetHeader("Accept", contentTypeJSON).
		SetHeader("Content-Type", contentTypeJSON)

	return &Client{
		http:   rc,
		logger: log,
	}
}

// Close stops the client background workers. Call it once.
func (c *Client) Close() error {
	return c.http.Close()
}

// SecurityDashboard fetches the issue counters of a component.
func (c *Client) SecurityDashboard(ctx context.Context, inst domain.Instance, componentKey string) (domain.SecuritySummary, error) {
	var payload securityDashboardResponse
	if err := c.post(ctx, inst, SecurityDashboardPath, componentKey, &payload); err != nil {
		return domain.SecuritySummary{}, fmt.Errorf("security dashboard: %w", err)
	}
	if payload.Data == nil {
		return domain.SecuritySummary{}, fmt.Errorf("security dashboard: %w", ErrMissingData)
	}
	return *payload.Data, nil
}

// SearchRepositories fetches the per-repository analyses of a component.
// An empty, present array is a valid answer.
func (c *Client) SearchRepositories(ctx context.Context, inst domain.Instance, componentKey string) ([]domain.RepositoryAnalysis, error) {
	var payload repositorySearchResponse
	if err := c.post(ctx, inst, RepositorySearchPath, componentKey, &payload); err != nil {
		return nil, fmt.Errorf("repository search: %w", err)
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("repository search: %w", ErrMissingData)
	}
	return *payload.Data, nil
}

// post sends an empty JSON object and decodes a 200 answer into result.
// The body is decoded as JSON whatever Content-Type the instance sends.
func (c *Client) post(ctx context.Context, inst domain.Instance, path, componentKey string, result any) error {
	url := strings.TrimRight(inst.BaseURL, "/") + path

	res, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(inst.Credential).
		SetPathParam(componentKeyPathParam, componentKey).
		SetBody(map[string]any{}).
		SetForceResponseContentType(contentTypeJSON).
		SetResult(result).
		Post(url)
	if err != nil {
		return fmt.Errorf("request to instance %q failed: %w", inst.Name, err)
	}

	if res.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: instance %q answered %d", ErrUnexpectedStatus, inst.Name, res.StatusCode())
	}

	c.logger.Debug("quality api call succeeded",
		logger.String("instance", inst.Name),
		logger.String("path", path),
		logger.Duration("duration", res.Duration()))

	return nil
}
