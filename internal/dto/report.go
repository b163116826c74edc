package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"grocery-admin/internal/model"
)

type ReportQuery struct {
	DateFrom string `form:"date_from" json:"date_from"`
	DateTo   string `form:"date_to" json:"date_to"`
	Limit    int    `form:"limit" json:"limit"`
}

type ReportRange struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Limit int       `json:"limit"`
}

const (
	DefaultReportDays  = 30
	DefaultReportLimit = 10
)

// Range resolves the query into an inclusive range. Missing bounds default to the
// last DefaultReportDays days ending today.
func (q ReportQuery) Range(now time.Time) (ReportRange, error) {
	errs := FieldErrors{}
	from, to, err := parseDateRange(q.DateFrom, q.DateTo, errs)
	if err != nil {
		return ReportRange{}, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	r := ReportRange{Limit: q.Limit}
	if to != nil {
		r.To = *to
	} else {
		r.To = today.Add(24*time.Hour - time.Nanosecond)
	}
	if from != nil {
		r.From = *from
	} else {
		start := r.To.Add(time.Nanosecond).AddDate(0, 0, -DefaultReportDays)
		r.From = start
	}
	if r.From.After(r.To) {
		return ReportRange{}, FieldErrors{"date_from": "tanggal awal setelah tanggal akhir"}
	}
	if r.Limit <= 0 || r.Limit > MaxPerPage {
		r.Limit = DefaultReportLimit
	}
	return r, nil
}

// Previous returns the range of equal length that ends right before r.
func (r ReportRange) Previous() ReportRange {
	length := r.To.Sub(r.From)
	to := r.From.Add(-time.Nanosecond)
	return ReportRange{From: to.Add(-length), To: to, Limit: r.Limit}
}

type StatusBreakdown struct {
	Status     model.Status    `json:"status"`
	Label      string          `json:"label"`
	Count      int             `json:"count"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"`
}

type SalesPoint struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type SalesReport struct {
	Range             ReportRange       `json:"range"`
	TotalOrders       int               `json:"total_orders"`
	TotalRevenue      decimal.Decimal   `json:"total_revenue"`
	AverageOrderValue decimal.Decimal   `json:"average_order_value"`
	PreviousRevenue   decimal.Decimal   `json:"previous_revenue"`
	GrowthPercentage  float64           `json:"growth_percentage"`
	ByStatus          []StatusBreakdown `json:"by_status"`
	Daily             []SalesPoint      `json:"daily"`
}

type ProductSales struct {
	ProductID  int64           `json:"product_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Revenue    decimal.Decimal `json:"revenue"`
	Percentage float64         `json:"percentage"`
}

type ProductReport struct {
	Range           ReportRange      `json:"range"`
	TotalItemsSold  int              `json:"total_items_sold"`
	TotalRevenue    decimal.Decimal  `json:"total_revenue"`
	TopProducts     []ProductSales   `json:"top_products"`
	LowStock        []*model.Product `json:"low_stock"`
	ActiveProducts  int64            `json:"active_products"`
	LowStockCeiling int              `json:"low_stock_threshold"`
}

type CustomerSales struct {
	UserID      int64           `json:"user_id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	OrdersCount int             `json:"orders_count"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
}

type CustomerReport struct {
	Range           ReportRange     `json:"range"`
	TotalCustomers  int64           `json:"total_customers"`
	NewCustomers    int64           `json:"new_customers"`
	ActiveCustomers int             `json:"active_customers"`
	RepeatRate      float64         `json:"repeat_rate"`
	TopCustomers    []CustomerSales `json:"top_customers"`
}

type FinancialPoint struct {
	Month      string          `json:"month"`
	GrossSales decimal.Decimal `json:"gross_sales"`
	Shipping   decimal.Decimal `json:"shipping"`
	Tax        decimal.Decimal `json:"tax"`
	Net        decimal.Decimal `json:"net"`
}

type FinancialReport struct {
	Range              ReportRange      `json:"range"`
	GrossSales         decimal.Decimal  `json:"gross_sales"`
	ShippingCollected  decimal.Decimal  `json:"shipping_collected"`
	TaxCollected       decimal.Decimal  `json:"tax_collected"`
	NetRevenue         decimal.Decimal  `json:"net_revenue"`
	SettledRevenue     decimal.Decimal  `json:"settled_revenue"`
	OutstandingRevenue decimal.Decimal  `json:"outstanding_revenue"`
	CancelledAmount    decimal.Decimal  `json:"cancelled_amount"`
	CancellationRate   float64          `json:"cancellation_rate"`
	Monthly            []FinancialPoint `json:"monthly"`
}
