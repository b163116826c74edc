// Package adminclient is the client side of the admin panel: an HTTP client for the
// admin API plus the page-level workflow helpers (status dispatcher, bulk action
// coordinator, list view) used by cmd/adminctl.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"grocery-admin/internal/dto"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Token   string
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// APIError is a non-2xx reply of the admin API.
type APIError struct {
	Status  int               `json:"-"`
	Message string            `json:"error"`
	Fields  map[string]string `json:"errors,omitempty"`
	Flash   *dto.Flash        `json:"flash,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%d: %s (%s)", e.Status, e.Message, dto.FieldErrors(e.Fields).Error())
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// envelope is the {data, flash} reply of single resource endpoints.
type envelope[T any] struct {
	Data  T          `json:"data"`
	Flash *dto.Flash `json:"flash"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if raw, isRaw := out.(*[]byte); isRaw {
		*raw, err = io.ReadAll(resp.Body)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Login stores the issued token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var env envelope[dto.LoginResponse]
	if err := c.do(ctx, http.MethodPost, "/admin/login", nil, dto.LoginRequest{Email: email, Password: password}, &env); err != nil {
		return nil, err
	}
	c.Token = env.Data.Token
	return &env.Data, nil
}

func (c *Client) Transitions(ctx context.Context) (*dto.TransitionTable, error) {
	var env envelope[dto.TransitionTable]
	if err := c.do(ctx, http.MethodGet, "/admin/orders/transitions", nil, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// ListOrders fetches one page from an order list endpoint such as /admin/orders
// or /admin/orders/status/pending.
func (c *Client) ListOrders(ctx context.Context, path string, q dto.OrderQuery) (*dto.Paginated[dto.OrderView], error) {
	var page dto.Paginated[dto.OrderView]
	if err := c.do(ctx, http.MethodGet, path, OrderValues(q), nil, &page); err != nil {
		return nil, err
	}
	if page.Data == nil {
		page.Data = []dto.OrderView{}
	}
	return &page, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*dto.OrderView, error) {
	var env envelope[dto.OrderView]
	if err := c.do(ctx, http.MethodGet, orderPath(id, ""), nil, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id int64, req dto.UpdateStatusRequest) (*dto.OrderView, *dto.Flash, error) {
	var env envelope[dto.OrderView]
	if err := c.do(ctx, http.MethodPatch, orderPath(id, "/status"), nil, req, &env); err != nil {
		return nil, nil, err
	}
	return &env.Data, env.Flash, nil
}

func (c *Client) UpdateTracking(ctx context.Context, id int64, tracking string) (*dto.OrderView, *dto.Flash, error) {
	var env envelope[dto.OrderView]
	if err := c.do(ctx, http.MethodPatch, orderPath(id, "/tracking"), nil, dto.UpdateTrackingRequest{TrackingNumber: tracking}, &env); err != nil {
		return nil, nil, err
	}
	return &env.Data, env.Flash, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id int64) (*dto.Flash, error) {
	var env envelope[map[string]any]
	if err := c.do(ctx, http.MethodDelete, orderPath(id, ""), nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Flash, nil
}

func (c *Client) BulkOrders(ctx context.Context, req dto.BulkOrderRequest) (*dto.BulkResult, *dto.Flash, error) {
	var env envelope[dto.BulkResult]
	if err := c.do(ctx, http.MethodPost, "/admin/orders/bulk-action", nil, req, &env); err != nil {
		return nil, nil, err
	}
	return &env.Data, env.Flash, nil
}

func (c *Client) BulkUsers(ctx context.Context, req dto.BulkUserRequest) (*dto.BulkResult, *dto.Flash, error) {
	var env envelope[dto.BulkResult]
	if err := c.do(ctx, http.MethodPost, "/admin/users/bulk-action", nil, req, &env); err != nil {
		return nil, nil, err
	}
	return &env.Data, env.Flash, nil
}

func (c *Client) ListUsers(ctx context.Context, path string, q dto.UserQuery) (*dto.Paginated[dto.UserView], error) {
	v := url.Values{}
	setNonZero(v, "page", q.Page)
	setNonZero(v, "per_page", q.PerPage)
	setString(v, "search", q.Search)
	setString(v, "role", q.Role)
	setString(v, "active", q.Active)
	setString(v, "date_from", q.DateFrom)
	setString(v, "date_to", q.DateTo)

	var page dto.Paginated[dto.UserView]
	if err := c.do(ctx, http.MethodGet, path, v, nil, &page); err != nil {
		return nil, err
	}
	if page.Data == nil {
		page.Data = []dto.UserView{}
	}
	return &page, nil
}

// Report decodes the data of /admin/reports/{name} into out.
func (c *Client) Report(ctx context.Context, name string, q dto.ReportQuery, out any) error {
	v := url.Values{}
	setString(v, "date_from", q.DateFrom)
	setString(v, "date_to", q.DateTo)
	setNonZero(v, "limit", q.Limit)
	return c.do(ctx, http.MethodGet, "/admin/reports/"+url.PathEscape(name), v, nil, &envelope[any]{Data: out})
}

// Download fetches an export such as /admin/orders/export?ids=1,2 as raw bytes.
func (c *Client) Download(ctx context.Context, pathWithQuery string) ([]byte, error) {
	path, rawQuery, _ := strings.Cut(pathWithQuery, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, err
	}
	var body []byte
	if err := c.do(ctx, http.MethodGet, path, query, nil, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// OrderValues encodes the filter form as query parameters, skipping empty fields.
func OrderValues(q dto.OrderQuery) url.Values {
	v := url.Values{}
	setNonZero(v, "page", q.Page)
	setNonZero(v, "per_page", q.PerPage)
	setString(v, "search", q.Search)
	setString(v, "status", q.Status)
	setString(v, "date_from", q.DateFrom)
	setString(v, "date_to", q.DateTo)
	setString(v, "amount_range", q.AmountRange)
	setString(v, "tracking_number", q.TrackingNumber)
	setString(v, "ids", q.IDs)
	return v
}

func orderPath(id int64, suffix string) string {
	return "/admin/orders/" + strconv.FormatInt(id, 10) + suffix
}

func setString(v url.Values, key, val string) {
	if val != "" {
		v.Set(key, val)
	}
}

func setNonZero(v url.Values, key string, val int) {
	if val != 0 {
		v.Set(key, strconv.Itoa(val))
	}
}
