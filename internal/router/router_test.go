package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-admin/internal/controller"
	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
	"grocery-admin/internal/repository"
	"grocery-admin/internal/service"
	"grocery-admin/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t       *testing.T
	engine  *gin.Engine
	repos   service.Repositories
	auth    *service.AuthService
	admin   *model.User
	buyer   *model.User
	product *model.Product
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	repos := storage.Memory(repository.NewMemoryStore())

	admin := &model.User{Name: "Admin", Email: "admin@grocery.local", Role: model.RoleAdmin, Active: true, CreatedAt: time.Now()}
	require.NoError(t, admin.SetPassword("password123"))
	require.NoError(t, repos.Users.Create(ctx, admin))
	buyer := &model.User{Name: "Budi", Email: "budi@example.com", Role: model.RoleBuyer, Active: true, CreatedAt: time.Now()}
	require.NoError(t, buyer.SetPassword("password123"))
	require.NoError(t, repos.Users.Create(ctx, buyer))
	require.NoError(t, repos.Roles.SaveRole(ctx, &model.Role{Name: model.RoleAdmin, Permissions: model.AllPermissions}))

	product := &model.Product{Name: "Minyak Goreng 2L", Slug: "minyak-goreng-2l", Price: decimal.NewFromInt(36000), Stock: 30, Active: true}
	require.NoError(t, repos.Catalog.CreateProduct(ctx, product))

	auth := service.NewAuthService(repos.Users, repos.Roles, "router-test", time.Hour)
	orders := service.NewOrderService(repos.Orders, repos.Users, repos.Catalog, nil)
	engine := NewRouter(Handlers{
		Auth:    controller.NewAuthController(auth),
		Orders:  controller.NewOrderController(orders, 15),
		Users:   controller.NewUserController(service.NewUserService(repos.Users, repos.Orders), 15),
		Reports: controller.NewReportController(service.NewReportService(repos.Orders, repos.Users, repos.Catalog)),
		Catalog: controller.NewCatalogController(service.NewCatalogService(repos.Catalog), 15),
	}, auth)

	ts := &testServer{t: t, engine: engine, repos: repos, auth: auth, admin: admin, buyer: buyer, product: product}
	ts.token = ts.tokenFor(admin, model.AllPermissions)
	return ts
}

func (ts *testServer) tokenFor(u *model.User, perms []string) string {
	tok, _, err := ts.auth.IssueToken(u, perms)
	require.NoError(ts.t, err)
	return tok
}

type reply struct {
	Data   json.RawMessage   `json:"data"`
	Flash  *dto.Flash        `json:"flash"`
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors"`
}

func (ts *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, reply) {
	ts.t.Helper()
	var buf bytes.Buffer
	if s, isRaw := body.(string); isRaw {
		buf.WriteString(s)
	} else if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)

	var r reply
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(ts.t, json.Unmarshal(w.Body.Bytes(), &r))
	}
	return w, r
}

func (ts *testServer) createOrder() dto.OrderView {
	ts.t.Helper()
	w, r := ts.do(http.MethodPost, "/admin/orders", ts.token, map[string]any{
		"user_id":          ts.buyer.ID,
		"items":            []map[string]any{{"product_id": ts.product.ID, "quantity": 2}},
		"shipping_address": "Jl. Cempaka 3, Bogor",
		"shipping_cost":    "12000",
		"tax_amount":       8000,
	})
	require.Equal(ts.t, http.StatusCreated, w.Code, w.Body.String())
	var v dto.OrderView
	require.NoError(ts.t, json.Unmarshal(r.Data, &v))
	return v
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	w, r := ts.do(http.MethodGet, "/admin/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, r.Error)

	w, _ = ts.do(http.MethodGet, "/admin/orders", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = ts.do(http.MethodGet, "/admin/orders", ts.tokenFor(ts.buyer, nil), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = ts.do(http.MethodGet, "/admin/orders", ts.tokenFor(ts.admin, []string{model.PermUsersView}), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = ts.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	w, r := ts.do(http.MethodPost, "/admin/login", "", dto.LoginRequest{Email: "admin@grocery.local", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	var res dto.LoginResponse
	require.NoError(t, json.Unmarshal(r.Data, &res))
	assert.NotEmpty(t, res.Token)
	require.NotNil(t, r.Flash)
	assert.Equal(t, dto.FlashSuccess, r.Flash.Type)

	w, _ = ts.do(http.MethodGet, "/admin/me", res.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = ts.do(http.MethodPost, "/admin/login", "", dto.LoginRequest{Email: "admin@grocery.local", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, r = ts.do(http.MethodPost, "/admin/login", "", map[string]string{"email": "bukan-email"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, r.Errors, "email")
	assert.Contains(t, r.Errors, "password")
}

func TestEmptyListRendersEmptyArray(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/admin/orders", "/admin/orders/completed", "/admin/orders/shipped", "/admin/orders/status/pending"} {
		w, r := ts.do(http.MethodGet, path, ts.token, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `[]`, string(r.Data), path)
	}

	w, _ := ts.do(http.MethodGet, "/admin/orders/status/lost", ts.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, r := ts.do(http.MethodGet, "/admin/orders?date_from=kemarin", ts.token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, r.Errors, "date_from")
}

func TestOrderListFiltersAndPages(t *testing.T) {
	ts := newTestServer(t)
	first := ts.createOrder()
	ts.createOrder()
	ts.createOrder()

	w, _ := ts.do(http.MethodGet, "/admin/orders?per_page=2&page=2", ts.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page dto.Paginated[dto.OrderView]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Data, 1)
	assert.Equal(t, int64(3), page.Meta.Total)
	assert.Equal(t, 2, page.Meta.LastPage)

	w, _ = ts.do(http.MethodGet, "/admin/orders?search="+first.OrderNumber, ts.token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, first.ID, page.Data[0].ID)
	assert.Equal(t, []string{model.ActionApprove, model.ActionReject}, page.Data[0].Actions)
	assert.Equal(t, "Menunggu", page.Data[0].Badge.Label)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	o := ts.createOrder()
	assert.Equal(t, "92000", o.TotalAmount.String())

	// illegal jump
	w, r := ts.do(http.MethodPatch, fmt.Sprintf("/admin/orders/%d/status", o.ID), ts.token, dto.UpdateStatusRequest{Status: "delivered"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, r.Flash)
	assert.Equal(t, dto.FlashError, r.Flash.Type)

	w, r = ts.do(http.MethodPost, fmt.Sprintf("/admin/orders/%d/actions/approve", o.ID), ts.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Pesanan dikonfirmasi", r.Flash.Message)

	w, r = ts.do(http.MethodPatch, fmt.Sprintf("/admin/orders/%d/status", o.ID), ts.token, dto.UpdateStatusRequest{Status: "shipped", TrackingNumber: "JNT-1"})
	require.Equal(t, http.StatusOK, w.Code)
	var view dto.OrderView
	require.NoError(t, json.Unmarshal(r.Data, &view))
	assert.Equal(t, model.StatusShipped, view.Status)
	assert.Equal(t, "JNT-1", view.TrackingNumber)
	assert.Contains(t, r.Flash.Message, "Dikirim")

	w, r = ts.do(http.MethodGet, fmt.Sprintf("/admin/orders/%d/history", o.ID), ts.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []model.StatusRecord
	require.NoError(t, json.Unmarshal(r.Data, &history))
	require.Len(t, history, 3)
	assert.True(t, history[2].Current)
	assert.Equal(t, ts.admin.ID, history[1].ActorID)

	w, _ = ts.do(http.MethodDelete, fmt.Sprintf("/admin/orders/%d", o.ID), ts.token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = ts.do(http.MethodGet, "/admin/orders/999", ts.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = ts.do(http.MethodGet, "/admin/orders/abc", ts.token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRejectThenDelete(t *testing.T) {
	ts := newTestServer(t)
	o := ts.createOrder()

	w, r := ts.do(http.MethodPost, fmt.Sprintf("/admin/orders/%d/actions/reject", o.ID), ts.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pesanan ditolak", r.Flash.Message)

	w, _ = ts.do(http.MethodPost, fmt.Sprintf("/admin/orders/%d/actions/delete", o.ID), ts.token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = ts.do(http.MethodPost, fmt.Sprintf("/admin/orders/%d/actions/refund", o.ID), ts.token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateOrderValidation(t *testing.T) {
	ts := newTestServer(t)

	w, r := ts.do(http.MethodPost, "/admin/orders", ts.token, map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, r.Errors, "user_id")
	assert.Contains(t, r.Errors, "items")
	assert.Contains(t, r.Errors, "shipping_address")

	w, _ = ts.do(http.MethodPost, "/admin/orders", ts.token, `{"user_id":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = ts.do(http.MethodPost, "/admin/orders", ts.token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	a, b, c := ts.createOrder(), ts.createOrder(), ts.createOrder()

	w, r := ts.do(http.MethodPost, "/admin/orders/bulk-action", ts.token, dto.BulkOrderRequest{
		Action:   model.BulkApproveAll,
		OrderIDs: []int64{a.ID, b.ID, c.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res dto.BulkResult
	require.NoError(t, json.Unmarshal(r.Data, &res))
	assert.Equal(t, 3, res.Processed)
	assert.Equal(t, dto.FlashSuccess, r.Flash.Type)

	// processing orders cannot skip shipping
	w, r = ts.do(http.MethodPost, "/admin/orders/bulk-action", ts.token, dto.BulkOrderRequest{
		Action:   model.BulkCompleteAll,
		OrderIDs: []int64{a.ID, b.ID},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.FlashError, r.Flash.Type)

	w, r = ts.do(http.MethodPost, "/admin/orders/bulk-action", ts.token, map[string]any{"action": "approve_all", "order_ids": []int64{}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, r.Errors, "order_ids")

	w, _ = ts.do(http.MethodPost, "/admin/orders/bulk-action", ts.token, dto.BulkOrderRequest{Action: "archive", OrderIDs: []int64{a.ID}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUsersOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	ts.createOrder()

	w, _ := ts.do(http.MethodGet, "/admin/customers", ts.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page dto.Paginated[dto.UserView]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(1), page.Data[0].OrdersCount)

	w, r := ts.do(http.MethodPost, "/admin/users", ts.token, dto.CreateUserRequest{Name: "Dewi", Email: "budi@example.com", Password: "password123", Role: model.RoleBuyer})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NotEmpty(t, r.Error)

	w, _ = ts.do(http.MethodDelete, fmt.Sprintf("/admin/users/%d", ts.admin.ID), ts.token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, r = ts.do(http.MethodPost, "/admin/users/bulk-action", ts.token, dto.BulkUserRequest{Action: model.UserBulkDeactivate, UserIDs: []int64{ts.admin.ID, ts.buyer.ID}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.FlashWarning, r.Flash.Type)
}

func TestReportsAndExports(t *testing.T) {
	ts := newTestServer(t)
	ts.createOrder()

	w, r := ts.do(http.MethodGet, "/admin/reports/sales", ts.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sales dto.SalesReport
	require.NoError(t, json.Unmarshal(r.Data, &sales))
	assert.Equal(t, 1, sales.TotalOrders)

	w, _ = ts.do(http.MethodGet, "/admin/reports/inventory", ts.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = ts.do(http.MethodGet, "/admin/reports/export/financial", ts.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report-financial-")

	w, _ = ts.do(http.MethodGet, "/admin/orders/export?status=pending", ts.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))

	w, _ = ts.do(http.MethodGet, "/admin/reports/sales", ts.tokenFor(ts.admin, []string{model.PermOrdersView}), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTransitionsAndCatalog(t *testing.T) {
	ts := newTestServer(t)

	w, r := ts.do(http.MethodGet, "/admin/orders/transitions", ts.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var table dto.TransitionTable
	require.NoError(t, json.Unmarshal(r.Data, &table))
	assert.Equal(t, model.Transitions, table.Transitions)

	w, _ = ts.do(http.MethodGet, "/admin/products", ts.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products dto.Paginated[model.Product]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products.Data, 1)
	assert.Equal(t, "Minyak Goreng 2L", products.Data[0].Name)
}
