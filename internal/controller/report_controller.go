package controller

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/service"
)

type ReportController struct {
	Service *service.ReportService
	Now     func() time.Time
}

func NewReportController(s *service.ReportService) *ReportController {
	return &ReportController{Service: s, Now: func() time.Time { return time.Now().UTC() }}
}

func (ctl *ReportController) rangeOf(c *gin.Context) (dto.ReportRange, bool) {
	var q dto.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, err)
		return dto.ReportRange{}, false
	}
	r, err := q.Range(ctl.Now())
	if err != nil {
		fail(c, err)
		return dto.ReportRange{}, false
	}
	return r, true
}

// GET /admin/reports/:report
func (ctl *ReportController) Show(c *gin.Context) {
	r, valid := ctl.rangeOf(c)
	if !valid {
		return
	}
	ctx := c.Request.Context()

	var (
		data any
		err  error
	)
	switch c.Param("report") {
	case service.ReportSales:
		data, err = ctl.Service.Sales(ctx, r)
	case service.ReportProducts:
		data, err = ctl.Service.Products(ctx, r)
	case service.ReportCustomers:
		data, err = ctl.Service.Customers(ctx, r)
	case service.ReportFinancial:
		data, err = ctl.Service.Financial(ctx, r)
	default:
		err = service.ErrUnknownReport
	}
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, data, nil)
}

// GET /admin/reports/export/:resource
func (ctl *ReportController) Export(c *gin.Context) {
	r, valid := ctl.rangeOf(c)
	if !valid {
		return
	}
	resource := c.Param("resource")
	var buf bytes.Buffer
	if err := ctl.Service.Export(c.Request.Context(), resource, r, &buf); err != nil {
		fail(c, err)
		return
	}
	sendCSV(c, service.ExportFilename("report-"+resource, ctl.Now()), buf.Bytes())
}
