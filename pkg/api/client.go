package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	shared "github.com/iLert/ilert-feed-sync"
	v1 "github.com/iLert/ilert-feed-sync/pkg/apis/alertgroup/v1"
)

const (
	alertGroupsPath    = "/alertgroups/"
	columnSettingsPath = "/alertgroup_table_settings/"
	labelKeysPath      = "/labels/keys/"
	labelValuesPath    = "/labels/id/%s/"

	defaultTimeout = 30 * time.Second
)

// Client on-call rest api client
type Client struct {
	httpClient *resty.Client
}

// ClientOptions definition
type ClientOptions func(*Client)

// WithTimeout overrides the request timeout
func WithTimeout(timeout time.Duration) ClientOptions {
	return func(c *Client) {
		c.httpClient.SetTimeout(timeout)
	}
}

// WithUserAgent overrides the user agent
func WithUserAgent(agent string) ClientOptions {
	return func(c *Client) {
		c.httpClient.SetHeader("User-Agent", agent)
	}
}

// NewClient creates an api client for baseURL authenticated with token
func NewClient(baseURL string, token string, options ...ClientOptions) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("%s/%s", shared.App, shared.Version))
	if token != "" {
		httpClient.SetAuthToken(token)
	}

	c := &Client{httpClient: httpClient}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString())
}

// do executes the request and decodes a non empty response body into out
func (c *Client) do(req *resty.Request, method string, path string, out interface{}) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("duration", resp.Time()).
		Msg("API request finished")

	if resp.IsError() {
		return newError(resp)
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func filtersToValues(filters v1.Filters) url.Values {
	values := url.Values{}
	for k, vs := range filters {
		for _, v := range vs {
			values.Add(k, v)
		}
	}
	return values
}

// ListAlertGroups lists one page of alert groups
func (c *Client) ListAlertGroups(ctx context.Context, filters v1.Filters, cursor *string) (*v1.ListResponse, error) {
	values := filtersToValues(filters)
	if cursor != nil && *cursor != "" {
		values.Set("cursor", *cursor)
	}

	out := &v1.ListResponse{}
	req := c.request(ctx).SetQueryParamsFromValues(values)
	if err := c.do(req, http.MethodGet, alertGroupsPath, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAlertGroup gets a single alert group
func (c *Client) GetAlertGroup(ctx context.Context, id string) (*v1.AlertGroup, error) {
	out := &v1.AlertGroup{}
	if err := c.do(c.request(ctx), http.MethodGet, alertGroupsPath+url.PathEscape(id)+"/", out); err != nil {
		return nil, err
	}
	return out, nil
}

// PostAction runs a mutating action. The returned alert group is nil when the api answers without a body.
func (c *Client) PostAction(ctx context.Context, id string, action v1.Action, body interface{}) (*v1.AlertGroup, error) {
	req := c.request(ctx)
	if body != nil {
		req.SetBody(body)
	}

	var out *v1.AlertGroup
	raw := json.RawMessage{}
	path := fmt.Sprintf("%s%s/%s/", alertGroupsPath, url.PathEscape(id), action)
	if err := c.do(req, http.MethodPost, path, &raw); err != nil {
		return nil, err
	}
	if len(raw) > 0 && string(raw) != "null" {
		out = &v1.AlertGroup{}
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("failed to decode %s response: %w", action, err)
		}
	}
	return out, nil
}

// GetStats gets the alert group count for filters
func (c *Client) GetStats(ctx context.Context, filters v1.Filters) (*v1.StatsSummary, error) {
	out := &v1.StatsSummary{}
	req := c.request(ctx).SetQueryParamsFromValues(filtersToValues(filters))
	if err := c.do(req, http.MethodGet, alertGroupsPath+"stats/", out); err != nil {
		return nil, err
	}
	return out, nil
}
