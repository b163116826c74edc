package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"grocery-admin/internal/dto"
)

const exportTimeLayout = "2006-01-02 15:04"

// Export writes every order matching f as CSV, ignoring pagination.
func (s *OrderService) Export(ctx context.Context, f dto.OrderFilter, w io.Writer) error {
	f.Pagination = dto.Pagination{Page: 1}
	orders, _, err := s.orders.List(ctx, f)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "order_number", "customer", "email", "status", "items", "shipping_cost", "tax_amount", "total_amount", "tracking_number", "invoice_number", "created_at", "shipped_at", "delivered_at"})
	for _, o := range orders {
		_ = cw.Write([]string{
			strconv.FormatInt(o.ID, 10),
			o.OrderNumber,
			o.CustomerName,
			o.CustomerEmail,
			string(o.Status),
			strconv.Itoa(len(o.Items)),
			o.ShippingCost.StringFixed(2),
			o.TaxAmount.StringFixed(2),
			o.TotalAmount.StringFixed(2),
			o.TrackingNumber,
			o.InvoiceNumber,
			o.CreatedAt.Format(exportTimeLayout),
			formatOptionalTime(o.ShippedAt),
			formatOptionalTime(o.DeliveredAt),
		})
	}
	cw.Flush()
	return cw.Error()
}

// Export writes every user matching f as CSV together with the order aggregates.
func (s *UserService) Export(ctx context.Context, f dto.UserFilter, w io.Writer) error {
	f.Pagination = dto.Pagination{Page: 1}
	views, _, err := s.List(ctx, f)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "name", "email", "phone", "role", "active", "orders_count", "total_spent", "created_at"})
	for _, v := range views {
		_ = cw.Write([]string{
			strconv.FormatInt(v.ID, 10),
			v.Name,
			v.Email,
			v.Phone,
			v.Role,
			strconv.FormatBool(v.Active),
			strconv.FormatInt(v.OrdersCount, 10),
			v.TotalSpent.StringFixed(2),
			v.CreatedAt.Format(exportTimeLayout),
		})
	}
	cw.Flush()
	return cw.Error()
}

// Report resources accepted by Export.
const (
	ReportSales     = "sales"
	ReportProducts  = "products"
	ReportCustomers = "customers"
	ReportFinancial = "financial"
)

// Export renders one report as CSV.
func (s *ReportService) Export(ctx context.Context, resource string, r dto.ReportRange, w io.Writer) error {
	cw := csv.NewWriter(w)
	switch resource {
	case ReportSales:
		rep, err := s.Sales(ctx, r)
		if err != nil {
			return err
		}
		_ = cw.Write([]string{"date", "orders", "revenue"})
		for _, p := range rep.Daily {
			_ = cw.Write([]string{p.Date, strconv.Itoa(p.Orders), p.Revenue.StringFixed(2)})
		}
		_ = cw.Write([]string{"total", strconv.Itoa(rep.TotalOrders), rep.TotalRevenue.StringFixed(2)})

	case ReportProducts:
		rep, err := s.Products(ctx, r)
		if err != nil {
			return err
		}
		_ = cw.Write([]string{"product_id", "name", "quantity", "revenue", "percentage"})
		for _, p := range rep.TopProducts {
			_ = cw.Write([]string{strconv.FormatInt(p.ProductID, 10), p.Name, strconv.Itoa(p.Quantity), p.Revenue.StringFixed(2), formatPercent(p.Percentage)})
		}

	case ReportCustomers:
		rep, err := s.Customers(ctx, r)
		if err != nil {
			return err
		}
		_ = cw.Write([]string{"user_id", "name", "email", "orders_count", "total_spent"})
		for _, c := range rep.TopCustomers {
			_ = cw.Write([]string{strconv.FormatInt(c.UserID, 10), c.Name, c.Email, strconv.Itoa(c.OrdersCount), c.TotalSpent.StringFixed(2)})
		}

	case ReportFinancial:
		rep, err := s.Financial(ctx, r)
		if err != nil {
			return err
		}
		_ = cw.Write([]string{"month", "gross_sales", "shipping", "tax", "net"})
		for _, p := range rep.Monthly {
			_ = cw.Write([]string{p.Month, p.GrossSales.StringFixed(2), p.Shipping.StringFixed(2), p.Tax.StringFixed(2), p.Net.StringFixed(2)})
		}
		_ = cw.Write([]string{"total", rep.GrossSales.StringFixed(2), rep.ShippingCollected.StringFixed(2), rep.TaxCollected.StringFixed(2), rep.NetRevenue.StringFixed(2)})

	default:
		return ErrUnknownReport
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename names a download, e.g. orders-20261017.csv.
func ExportFilename(resource string, t time.Time) string {
	return fmt.Sprintf("%s-%s.csv", resource, t.Format("20060102"))
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportTimeLayout)
}

func formatPercent(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
