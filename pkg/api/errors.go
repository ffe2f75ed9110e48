package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Error a non 2xx response of the api
type Error struct {
	Status int
	URL    string
	Method string
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error: status=%d url=%s method=%s error=%s", e.Status, e.URL, e.Method, e.Detail)
}

// IsNotFound reports whether err is an api 404
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func newError(resp *resty.Response) *Error {
	apiErr := &Error{
		Status: resp.StatusCode(),
		Detail: strings.TrimSpace(string(resp.Body())),
	}
	if resp.Request != nil {
		apiErr.URL = resp.Request.URL
		apiErr.Method = resp.Request.Method
	}

	body := struct {
		Detail string `json:"detail"`
	}{}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Detail != "" {
		apiErr.Detail = body.Detail
	}
	return apiErr
}
