package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"valuator/internal/api"
	"valuator/internal/domain"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// Client talks to a running valuator server.
type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetError(&api.Error{})
	return &Client{http: c}
}

func (c *Client) CreateSession(ctx context.Context) (api.Session, error) {
	var out api.Session
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Post("/sessions")
	return out, check(resp, err)
}

func (c *Client) Session(ctx context.Context, id string) (api.Session, error) {
	var out api.Session
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).
		SetPathParam("id", id).
		Get("/sessions/{id}")
	return out, check(resp, err)
}

// Send posts a chat message. With wait set the server answers deferred
// commands before replying.
func (c *Client) Send(ctx context.Context, id, text string, wait bool) (api.MessageResponse, error) {
	var out api.MessageResponse
	req := c.http.R().SetContext(ctx).SetResult(&out).
		SetPathParam("id", id).
		SetBody(api.MessageRequest{Text: text})
	if wait {
		req.SetQueryParam("wait", "true")
	}
	resp, err := req.Post("/sessions/{id}/messages")
	return out, check(resp, err)
}

func (c *Client) Transcript(ctx context.Context, id string) (api.Transcript, error) {
	var out api.Transcript
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).
		SetPathParam("id", id).
		Get("/sessions/{id}/messages")
	return out, check(resp, err)
}

func (c *Client) GutCheck(ctx context.Context, id, narrative string) (domain.GutCheckResult, error) {
	var out domain.GutCheckResult
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).
		SetPathParam("id", id).
		SetBody(api.GutCheckRequest{Narrative: narrative}).
		Post("/sessions/{id}/gut-check")
	return out, check(resp, err)
}

func (c *Client) SaveDeal(ctx context.Context, id, name string) (domain.DealSummary, error) {
	var out domain.DealSummary
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).
		SetPathParam("id", id).
		SetBody(api.SaveDealRequest{Name: name}).
		Post("/sessions/{id}/deals")
	return out, check(resp, err)
}

func (c *Client) Deals(ctx context.Context) ([]domain.DealSummary, error) {
	var out api.Deals
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/deals")
	return out.Deals, check(resp, err)
}

func (c *Client) LoadDeal(ctx context.Context, id, dealID string) (api.Session, error) {
	var out api.Session
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).
		SetPathParams(map[string]string{"id": id, "dealID": dealID}).
		Post("/sessions/{id}/deals/{dealID}/load")
	return out, check(resp, err)
}

// Report fetches the report in the given format (md, html or pdf).
func (c *Client) Report(ctx context.Context, id, format string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).
		SetPathParam("id", id).
		SetQueryParam("format", format).
		Get("/sessions/{id}/report")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	apiErr := &APIError{Status: resp.StatusCode(), Code: http.StatusText(resp.StatusCode())}
	if e, ok := resp.Error().(*api.Error); ok && e.Error.Code != "" {
		apiErr.Code, apiErr.Message = e.Error.Code, e.Error.Message
	}
	return apiErr
}
