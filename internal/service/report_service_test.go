package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

func reportRange(t *testing.T) dto.ReportRange {
	t.Helper()
	r, err := dto.ReportQuery{DateFrom: "2026-10-11", DateTo: "2026-10-17"}.Range(fixedNow)
	require.NoError(t, err)
	return r
}

func TestSalesReport(t *testing.T) {
	f := newFixture(t)
	f.placeOrder(t)
	f.placeOrder(t)
	cancelled := f.placeOrder(t)
	f.advance(t, cancelled.ID, model.StatusCancelled)

	rep, err := f.reports.Sales(context.Background(), reportRange(t))
	require.NoError(t, err)
	assert.Equal(t, 3, rep.TotalOrders)
	assert.Equal(t, "318600.00", rep.TotalRevenue.StringFixed(2))
	assert.Equal(t, "159300.00", rep.AverageOrderValue.StringFixed(2))
	assert.Equal(t, float64(100), rep.GrowthPercentage)
	require.Len(t, rep.Daily, 7)
	assert.Equal(t, "2026-10-17", rep.Daily[6].Date)
	assert.Equal(t, 2, rep.Daily[6].Orders)
	require.Len(t, rep.ByStatus, len(model.Statuses))
	assert.Equal(t, 1, rep.ByStatus[4].Count)
	assert.Equal(t, 33.33, rep.ByStatus[4].Percentage)
}

func TestProductAndCustomerReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.placeOrder(t)
	f.placeOrder(t)

	products, err := f.reports.Products(ctx, reportRange(t))
	require.NoError(t, err)
	assert.Equal(t, 4, products.TotalItemsSold)
	require.Len(t, products.TopProducts, 1)
	assert.Equal(t, float64(100), products.TopProducts[0].Percentage)
	require.Len(t, products.LowStock, 1)
	assert.Equal(t, f.telur.ID, products.LowStock[0].ID)
	assert.Equal(t, int64(2), products.ActiveProducts)

	customers, err := f.reports.Customers(ctx, reportRange(t))
	require.NoError(t, err)
	assert.Equal(t, int64(2), customers.TotalCustomers)
	assert.Equal(t, int64(2), customers.NewCustomers)
	assert.Equal(t, 1, customers.ActiveCustomers)
	assert.Equal(t, float64(100), customers.RepeatRate)
	require.Len(t, customers.TopCustomers, 1)
	assert.Equal(t, 2, customers.TopCustomers[0].OrdersCount)
}

func TestFinancialReport(t *testing.T) {
	f := newFixture(t)
	delivered := f.placeOrder(t)
	f.advance(t, delivered.ID, model.StatusProcessing, model.StatusShipped, model.StatusDelivered)
	f.placeOrder(t)
	cancelled := f.placeOrder(t)
	f.advance(t, cancelled.ID, model.StatusCancelled)

	rep, err := f.reports.Financial(context.Background(), reportRange(t))
	require.NoError(t, err)
	assert.Equal(t, "260000.00", rep.GrossSales.StringFixed(2))
	assert.Equal(t, "30000.00", rep.ShippingCollected.StringFixed(2))
	assert.Equal(t, "28600.00", rep.TaxCollected.StringFixed(2))
	assert.Equal(t, "318600.00", rep.NetRevenue.StringFixed(2))
	assert.Equal(t, "159300.00", rep.SettledRevenue.StringFixed(2))
	assert.Equal(t, "159300.00", rep.OutstandingRevenue.StringFixed(2))
	assert.Equal(t, "159300.00", rep.CancelledAmount.StringFixed(2))
	require.Len(t, rep.Monthly, 1)
	assert.Equal(t, "2026-10", rep.Monthly[0].Month)
}

func TestReportExport(t *testing.T) {
	f := newFixture(t)
	f.placeOrder(t)

	var buf bytes.Buffer
	require.NoError(t, f.reports.Export(context.Background(), ReportSales, reportRange(t), &buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "date,orders,revenue", lines[0])
	assert.Equal(t, "total,1,159300.00", lines[len(lines)-1])

	assert.ErrorIs(t, f.reports.Export(context.Background(), "inventory", reportRange(t), &buf), ErrUnknownReport)
}

func TestOrderExport(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t)
	f.placeOrder(t)

	var buf bytes.Buffer
	require.NoError(t, f.orders.Export(context.Background(), dto.OrderFilter{IDs: []int64{o.ID}}, &buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,order_number,customer"))
	assert.Contains(t, lines[1], o.OrderNumber)
	assert.Contains(t, lines[1], "159300.00")
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "orders-20261017.csv", ExportFilename("orders", time.Date(2026, 10, 17, 23, 0, 0, 0, time.UTC)))
}
