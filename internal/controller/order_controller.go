package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/middleware"
	"grocery-admin/internal/model"
	"grocery-admin/internal/service"
)

type OrderController struct {
	Service *service.OrderService
	PerPage int
}

func NewOrderController(s *service.OrderService, perPage int) *OrderController {
	return &OrderController{Service: s, PerPage: perPage}
}

// GET /admin/orders
func (ctl *OrderController) Index(c *gin.Context) {
	ctl.list(c, nil)
}

// GET /admin/orders/completed
func (ctl *OrderController) Completed(c *gin.Context) {
	ctl.list(c, []model.Status{model.StatusDelivered})
}

// GET /admin/orders/shipped
func (ctl *OrderController) Shipped(c *gin.Context) {
	ctl.list(c, []model.Status{model.StatusShipped})
}

// GET /admin/orders/status/:status
func (ctl *OrderController) ByStatus(c *gin.Context) {
	st, valid := model.ParseStatus(c.Param("status"))
	if !valid {
		fail(c, service.ErrNotFound)
		return
	}
	ctl.list(c, []model.Status{st})
}

// list renders one page of orders. fixed pins the statuses of a dedicated page and
// overrides the status filter of the form.
func (ctl *OrderController) list(c *gin.Context, fixed []model.Status) {
	var q dto.OrderQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, err)
		return
	}
	if fixed != nil {
		q.Status = ""
	}
	f, err := q.Filter(ctl.PerPage)
	if err != nil {
		fail(c, err)
		return
	}
	if fixed != nil {
		f.Statuses = fixed
		q.Status = string(fixed[0])
	}

	orders, total, err := ctl.Service.List(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(dto.NewOrderViews(orders), total, f.Pagination, q))
}

// GET /admin/orders/:id
func (ctl *OrderController) Show(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	o, err := ctl.Service.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewOrderView(o), nil)
}

// GET /admin/orders/:id/history
func (ctl *OrderController) History(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	o, err := ctl.Service.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	history := o.History
	if history == nil {
		history = []model.StatusRecord{}
	}
	ok(c, http.StatusOK, history, nil)
}

// GET /admin/orders/transitions
func (ctl *OrderController) Transitions(c *gin.Context) {
	ok(c, http.StatusOK, dto.NewTransitionTable(), nil)
}

// POST /admin/orders
func (ctl *OrderController) Store(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	o, err := ctl.Service.Create(c.Request.Context(), req, middleware.ActorID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, dto.NewOrderView(o), dto.Success(fmt.Sprintf("Pesanan %s berhasil dibuat", o.OrderNumber)))
}

// PATCH /admin/orders/:id/status
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	o, err := ctl.Service.UpdateStatus(c.Request.Context(), id, req.Status, req.Notes, req.TrackingNumber, middleware.ActorID(c))
	if err != nil {
		fail(c, err)
		return
	}
	msg := fmt.Sprintf("Status pesanan %s diperbarui menjadi %s", o.OrderNumber, model.Badge(o.Status).Label)
	ok(c, http.StatusOK, dto.NewOrderView(o), dto.Success(msg))
}

// POST /admin/orders/:id/actions/:action
func (ctl *OrderController) Action(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	name := c.Param("action")
	a, known := model.LookupAction(name)
	if !known {
		fail(c, service.ErrUnknownAction)
		return
	}

	switch {
	case a.Name == model.ActionTrack:
		ctl.UpdateTracking(c)
	case a.Name == model.ActionDelete:
		ctl.Destroy(c)
	default:
		o, err := ctl.Service.ApplyAction(c.Request.Context(), id, name, middleware.ActorID(c))
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, http.StatusOK, dto.NewOrderView(o), dto.Success(a.Notes))
	}
}

// PATCH /admin/orders/:id/tracking
func (ctl *OrderController) UpdateTracking(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req dto.UpdateTrackingRequest
	if !bindJSON(c, &req) {
		return
	}
	o, err := ctl.Service.UpdateTracking(c.Request.Context(), id, req.TrackingNumber)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewOrderView(o), dto.Success("Nomor resi diperbarui"))
}

// DELETE /admin/orders/:id
func (ctl *OrderController) Destroy(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := ctl.Service.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": id}, dto.Success("Pesanan dihapus"))
}

// POST /admin/orders/bulk-action
func (ctl *OrderController) BulkAction(c *gin.Context) {
	var req dto.BulkOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := ctl.Service.Bulk(c.Request.Context(), req, middleware.ActorID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, bulkFlash(res, "pesanan"))
}

// GET /admin/orders/export
func (ctl *OrderController) Export(c *gin.Context) {
	var q dto.OrderQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, err)
		return
	}
	f, err := q.Filter(ctl.PerPage)
	if err != nil {
		fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := ctl.Service.Export(c.Request.Context(), f, &buf); err != nil {
		fail(c, err)
		return
	}
	sendCSV(c, service.ExportFilename("orders", time.Now()), buf.Bytes())
}

func sendCSV(c *gin.Context, filename string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

// bulkFlash summarises a bulk result for the page banner.
func bulkFlash(res *dto.BulkResult, noun string) *dto.Flash {
	failed := len(res.Failed)
	switch {
	case res.DownloadURL != "":
		return dto.Info(fmt.Sprintf("Ekspor %d %s siap diunduh", res.Processed, noun))
	case failed == 0:
		return dto.Success(fmt.Sprintf("%d %s berhasil diproses", res.Processed, noun))
	case res.Processed == 0:
		return dto.Error(fmt.Sprintf("Tidak ada %s yang diproses: %s", noun, res.Failed[0].Error))
	}
	return dto.Warning(fmt.Sprintf("%d dari %d %s diproses, %d gagal", res.Processed, res.Requested, noun, failed))
}
