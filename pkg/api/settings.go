package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	v1 "github.com/iLert/ilert-feed-sync/pkg/apis/alertgroup/v1"
)

// GetColumnSettings gets the persisted alert group table columns
func (c *Client) GetColumnSettings(ctx context.Context) (*v1.ColumnSettings, error) {
	out := &v1.ColumnSettings{}
	if err := c.do(c.request(ctx), http.MethodGet, columnSettingsPath, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReorderColumns stores a user initiated column order
func (c *Client) ReorderColumns(ctx context.Context, settings *v1.ColumnSettings) (*v1.ColumnSettings, error) {
	return c.writeColumnSettings(ctx, http.MethodPut, columnSettingsPath, settings)
}

// UpdateColumns stores a system initiated column update
func (c *Client) UpdateColumns(ctx context.Context, settings *v1.ColumnSettings) (*v1.ColumnSettings, error) {
	return c.writeColumnSettings(ctx, http.MethodPost, columnSettingsPath, settings)
}

// ResetColumns restores the default columns
func (c *Client) ResetColumns(ctx context.Context) (*v1.ColumnSettings, error) {
	return c.writeColumnSettings(ctx, http.MethodPost, columnSettingsPath+"reset/", nil)
}

func (c *Client) writeColumnSettings(ctx context.Context, method string, path string, settings *v1.ColumnSettings) (*v1.ColumnSettings, error) {
	req := c.request(ctx)
	if settings != nil {
		req.SetBody(settings)
	}
	out := &v1.ColumnSettings{}
	if err := c.do(req, method, path, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListLabelKeys lists the label keys known to the api
func (c *Client) ListLabelKeys(ctx context.Context) ([]v1.LabelKey, error) {
	out := make([]v1.LabelKey, 0)
	if err := c.do(c.request(ctx), http.MethodGet, labelKeysPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetLabelValues gets the values of a label key matching search
func (c *Client) GetLabelValues(ctx context.Context, keyID string, search string) (*v1.LabelOption, error) {
	req := c.request(ctx)
	if search != "" {
		req.SetQueryParam("search", search)
	}
	out := &v1.LabelOption{}
	if err := c.do(req, http.MethodGet, fmt.Sprintf(labelValuesPath, url.PathEscape(keyID)), out); err != nil {
		return nil, err
	}
	return out, nil
}
