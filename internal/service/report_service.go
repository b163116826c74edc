package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

// ReportService aggregates the sales, product, customer and financial reports from
// the orders of a date range.
type ReportService struct {
	orders  OrderRepository
	users   UserRepository
	catalog CatalogRepository
}

func NewReportService(orders OrderRepository, users UserRepository, catalog CatalogRepository) *ReportService {
	return &ReportService{orders: orders, users: users, catalog: catalog}
}

func (s *ReportService) ordersIn(ctx context.Context, r dto.ReportRange) ([]*model.Order, error) {
	from, to := r.From, r.To
	orders, _, err := s.orders.List(ctx, dto.OrderFilter{
		Pagination: dto.Pagination{Page: 1},
		From:       &from,
		To:         &to,
	})
	return orders, err
}

func revenueOf(orders []*model.Order) (decimal.Decimal, int) {
	total := decimal.Zero
	n := 0
	for _, o := range orders {
		if o.Status == model.StatusCancelled {
			continue
		}
		total = total.Add(o.TotalAmount)
		n++
	}
	return total, n
}

func (s *ReportService) Sales(ctx context.Context, r dto.ReportRange) (*dto.SalesReport, error) {
	orders, err := s.ordersIn(ctx, r)
	if err != nil {
		return nil, err
	}
	previous, err := s.ordersIn(ctx, r.Previous())
	if err != nil {
		return nil, err
	}

	revenue, paid := revenueOf(orders)
	prevRevenue, _ := revenueOf(previous)

	rep := &dto.SalesReport{
		Range:             r,
		TotalOrders:       len(orders),
		TotalRevenue:      revenue,
		AverageOrderValue: decimal.Zero,
		PreviousRevenue:   prevRevenue,
		GrowthPercentage:  growth(prevRevenue, revenue),
	}
	if paid > 0 {
		rep.AverageOrderValue = revenue.Div(decimal.NewFromInt(int64(paid))).Round(2)
	}

	counts := map[model.Status]int{}
	amounts := map[model.Status]decimal.Decimal{}
	for _, o := range orders {
		counts[o.Status]++
		amounts[o.Status] = amounts[o.Status].Add(o.TotalAmount)
	}
	for _, st := range model.Statuses {
		rep.ByStatus = append(rep.ByStatus, dto.StatusBreakdown{
			Status:     st,
			Label:      model.Badge(st).Label,
			Count:      counts[st],
			Amount:     amounts[st],
			Percentage: percentage(float64(counts[st]), float64(len(orders))),
		})
	}

	daily := map[string]*dto.SalesPoint{}
	for day := startOfDay(r.From); !day.After(r.To); day = day.AddDate(0, 0, 1) {
		key := day.Format(dto.DateLayout)
		daily[key] = &dto.SalesPoint{Date: key, Revenue: decimal.Zero}
	}
	for _, o := range orders {
		if o.Status == model.StatusCancelled {
			continue
		}
		p, ok := daily[o.CreatedAt.UTC().Format(dto.DateLayout)]
		if !ok {
			continue
		}
		p.Orders++
		p.Revenue = p.Revenue.Add(o.TotalAmount)
	}
	rep.Daily = make([]dto.SalesPoint, 0, len(daily))
	for day := startOfDay(r.From); !day.After(r.To); day = day.AddDate(0, 0, 1) {
		rep.Daily = append(rep.Daily, *daily[day.Format(dto.DateLayout)])
	}
	return rep, nil
}

func (s *ReportService) Products(ctx context.Context, r dto.ReportRange) (*dto.ProductReport, error) {
	orders, err := s.ordersIn(ctx, r)
	if err != nil {
		return nil, err
	}

	byProduct := map[int64]*dto.ProductSales{}
	totalRevenue := decimal.Zero
	totalQty := 0
	for _, o := range orders {
		if o.Status == model.StatusCancelled {
			continue
		}
		for _, it := range o.Items {
			ps, ok := byProduct[it.ProductID]
			if !ok {
				ps = &dto.ProductSales{ProductID: it.ProductID, Name: it.ProductName, Revenue: decimal.Zero}
				byProduct[it.ProductID] = ps
			}
			sub := it.Subtotal()
			ps.Quantity += it.Quantity
			ps.Revenue = ps.Revenue.Add(sub)
			totalRevenue = totalRevenue.Add(sub)
			totalQty += it.Quantity
		}
	}

	top := make([]dto.ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		rev, _ := ps.Revenue.Float64()
		all, _ := totalRevenue.Float64()
		ps.Percentage = percentage(rev, all)
		top = append(top, *ps)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Quantity != top[j].Quantity {
			return top[i].Quantity > top[j].Quantity
		}
		if !top[i].Revenue.Equal(top[j].Revenue) {
			return top[i].Revenue.GreaterThan(top[j].Revenue)
		}
		return top[i].ProductID < top[j].ProductID
	})
	if len(top) > r.Limit && r.Limit > 0 {
		top = top[:r.Limit]
	}

	ceiling := model.LowStockThreshold - 1
	low, _, err := s.catalog.ListProducts(ctx, dto.ProductFilter{
		Pagination: dto.Pagination{Page: 1},
		ActiveOnly: true,
		MaxStock:   &ceiling,
	})
	if err != nil {
		return nil, err
	}
	_, active, err := s.catalog.ListProducts(ctx, dto.ProductFilter{
		Pagination: dto.Pagination{Page: 1, PerPage: 1},
		ActiveOnly: true,
	})
	if err != nil {
		return nil, err
	}
	if low == nil {
		low = []*model.Product{}
	}

	return &dto.ProductReport{
		Range:           r,
		TotalItemsSold:  totalQty,
		TotalRevenue:    totalRevenue,
		TopProducts:     top,
		LowStock:        low,
		ActiveProducts:  active,
		LowStockCeiling: model.LowStockThreshold,
	}, nil
}

func (s *ReportService) Customers(ctx context.Context, r dto.ReportRange) (*dto.CustomerReport, error) {
	orders, err := s.ordersIn(ctx, r)
	if err != nil {
		return nil, err
	}
	total, err := s.users.Count(ctx, dto.UserFilter{Role: model.RoleBuyer})
	if err != nil {
		return nil, err
	}
	from, to := r.From, r.To
	fresh, err := s.users.Count(ctx, dto.UserFilter{Role: model.RoleBuyer, From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	byUser := map[int64]*dto.CustomerSales{}
	for _, o := range orders {
		if o.Status == model.StatusCancelled {
			continue
		}
		cs, ok := byUser[o.UserID]
		if !ok {
			cs = &dto.CustomerSales{UserID: o.UserID, Name: o.CustomerName, Email: o.CustomerEmail, TotalSpent: decimal.Zero}
			byUser[o.UserID] = cs
		}
		cs.OrdersCount++
		cs.TotalSpent = cs.TotalSpent.Add(o.TotalAmount)
	}

	repeat := 0
	top := make([]dto.CustomerSales, 0, len(byUser))
	for _, cs := range byUser {
		if cs.OrdersCount > 1 {
			repeat++
		}
		top = append(top, *cs)
	}
	sort.Slice(top, func(i, j int) bool {
		if !top[i].TotalSpent.Equal(top[j].TotalSpent) {
			return top[i].TotalSpent.GreaterThan(top[j].TotalSpent)
		}
		return top[i].UserID < top[j].UserID
	})
	if len(top) > r.Limit && r.Limit > 0 {
		top = top[:r.Limit]
	}

	return &dto.CustomerReport{
		Range:           r,
		TotalCustomers:  total,
		NewCustomers:    fresh,
		ActiveCustomers: len(byUser),
		RepeatRate:      percentage(float64(repeat), float64(len(byUser))),
		TopCustomers:    top,
	}, nil
}

func (s *ReportService) Financial(ctx context.Context, r dto.ReportRange) (*dto.FinancialReport, error) {
	orders, err := s.ordersIn(ctx, r)
	if err != nil {
		return nil, err
	}
	rep := &dto.FinancialReport{
		Range:              r,
		GrossSales:         decimal.Zero,
		ShippingCollected:  decimal.Zero,
		TaxCollected:       decimal.Zero,
		NetRevenue:         decimal.Zero,
		SettledRevenue:     decimal.Zero,
		OutstandingRevenue: decimal.Zero,
		CancelledAmount:    decimal.Zero,
	}

	months := map[string]*dto.FinancialPoint{}
	cancelled := 0
	for _, o := range orders {
		if o.Status == model.StatusCancelled {
			cancelled++
			rep.CancelledAmount = rep.CancelledAmount.Add(o.TotalAmount)
			continue
		}
		gross := o.ItemsSubtotal()
		rep.GrossSales = rep.GrossSales.Add(gross)
		rep.ShippingCollected = rep.ShippingCollected.Add(o.ShippingCost)
		rep.TaxCollected = rep.TaxCollected.Add(o.TaxAmount)
		rep.NetRevenue = rep.NetRevenue.Add(o.TotalAmount)
		if o.Status == model.StatusDelivered {
			rep.SettledRevenue = rep.SettledRevenue.Add(o.TotalAmount)
		} else {
			rep.OutstandingRevenue = rep.OutstandingRevenue.Add(o.TotalAmount)
		}

		key := o.CreatedAt.UTC().Format("2006-01")
		p, ok := months[key]
		if !ok {
			p = &dto.FinancialPoint{Month: key, GrossSales: decimal.Zero, Shipping: decimal.Zero, Tax: decimal.Zero, Net: decimal.Zero}
			months[key] = p
		}
		p.GrossSales = p.GrossSales.Add(gross)
		p.Shipping = p.Shipping.Add(o.ShippingCost)
		p.Tax = p.Tax.Add(o.TaxAmount)
		p.Net = p.Net.Add(o.TotalAmount)
	}
	rep.CancellationRate = percentage(float64(cancelled), float64(len(orders)))

	rep.Monthly = make([]dto.FinancialPoint, 0, len(months))
	for _, p := range months {
		rep.Monthly = append(rep.Monthly, *p)
	}
	sort.Slice(rep.Monthly, func(i, j int) bool { return rep.Monthly[i].Month < rep.Monthly[j].Month })
	return rep, nil
}

// percentage returns part/whole as a percentage rounded to two decimals; zero when
// whole is zero.
func percentage(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(part/whole*10000) / 100
}

func growth(previous, current decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	f, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return f
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
