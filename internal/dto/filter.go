package dto

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"grocery-admin/internal/model"
)

const DateLayout = "2006-01-02"

// FieldErrors are per-field validation messages rendered under form controls.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fe[k]))
	}
	return strings.Join(parts, "; ")
}

func (fe FieldErrors) orNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// OrderQuery is the raw filter form of the order list pages, echoed back to the view.
type OrderQuery struct {
	Page           int    `form:"page" json:"page"`
	PerPage        int    `form:"per_page" json:"per_page"`
	Search         string `form:"search" json:"search"`
	Status         string `form:"status" json:"status"`
	DateFrom       string `form:"date_from" json:"date_from"`
	DateTo         string `form:"date_to" json:"date_to"`
	AmountRange    string `form:"amount_range" json:"amount_range"`
	TrackingNumber string `form:"tracking_number" json:"tracking_number"`
	IDs            string `form:"ids" json:"ids,omitempty"`
}

type OrderFilter struct {
	Pagination
	Search         string
	Statuses       []model.Status
	From           *time.Time
	To             *time.Time
	MinAmount      *decimal.Decimal
	MaxAmount      *decimal.Decimal
	TrackingNumber string
	UserIDs        []int64
	IDs            []int64
}

// Filter validates the query and converts it into a store filter.
func (q OrderQuery) Filter(defaultPerPage int) (OrderFilter, error) {
	errs := FieldErrors{}
	f := OrderFilter{
		Pagination:     NewPagination(q.Page, q.PerPage, defaultPerPage),
		Search:         strings.TrimSpace(q.Search),
		TrackingNumber: strings.TrimSpace(q.TrackingNumber),
	}
	if q.Status != "" {
		st, ok := model.ParseStatus(q.Status)
		if !ok {
			errs["status"] = "status tidak dikenal"
		} else {
			f.Statuses = []model.Status{st}
		}
	}
	from, to, err := parseDateRange(q.DateFrom, q.DateTo, errs)
	if err == nil {
		f.From, f.To = from, to
	}
	if q.AmountRange != "" {
		lo, hi, err := ParseAmountRange(q.AmountRange)
		if err != nil {
			errs["amount_range"] = err.Error()
		} else {
			f.MinAmount, f.MaxAmount = lo, hi
		}
	}
	if q.IDs != "" {
		ids, err := ParseIDList(q.IDs)
		if err != nil {
			errs["ids"] = err.Error()
		}
		f.IDs = ids
	}
	return f, errs.orNil()
}

// UserQuery is the raw filter form of the user and customer pages.
type UserQuery struct {
	Page     int    `form:"page" json:"page"`
	PerPage  int    `form:"per_page" json:"per_page"`
	Search   string `form:"search" json:"search"`
	Role     string `form:"role" json:"role"`
	Active   string `form:"active" json:"active"`
	DateFrom string `form:"date_from" json:"date_from"`
	DateTo   string `form:"date_to" json:"date_to"`
	IDs      string `form:"ids" json:"ids,omitempty"`
}

type UserFilter struct {
	Pagination
	Search string
	Role   string
	Active *bool
	From   *time.Time
	To     *time.Time
	IDs    []int64
}

func (q UserQuery) Filter(defaultPerPage int) (UserFilter, error) {
	errs := FieldErrors{}
	f := UserFilter{
		Pagination: NewPagination(q.Page, q.PerPage, defaultPerPage),
		Search:     strings.TrimSpace(q.Search),
	}
	switch q.Role {
	case "":
	case model.RoleAdmin, model.RoleBuyer:
		f.Role = q.Role
	default:
		errs["role"] = "role tidak dikenal"
	}
	if q.Active != "" {
		active, err := strconv.ParseBool(q.Active)
		if err != nil {
			errs["active"] = "nilai active tidak valid"
		} else {
			f.Active = &active
		}
	}
	from, to, err := parseDateRange(q.DateFrom, q.DateTo, errs)
	if err == nil {
		f.From, f.To = from, to
	}
	if q.IDs != "" {
		ids, err := ParseIDList(q.IDs)
		if err != nil {
			errs["ids"] = err.Error()
		}
		f.IDs = ids
	}
	return f, errs.orNil()
}

type ProductQuery struct {
	Page       int    `form:"page" json:"page"`
	PerPage    int    `form:"per_page" json:"per_page"`
	Search     string `form:"search" json:"search"`
	CategoryID int64  `form:"category_id" json:"category_id"`
	ActiveOnly bool   `form:"active_only" json:"active_only"`
}

type ProductFilter struct {
	Pagination
	Search     string
	CategoryID int64
	ActiveOnly bool
	MaxStock   *int
	IDs        []int64
}

func (q ProductQuery) Filter(defaultPerPage int) ProductFilter {
	return ProductFilter{
		Pagination: NewPagination(q.Page, q.PerPage, defaultPerPage),
		Search:     strings.TrimSpace(q.Search),
		CategoryID: q.CategoryID,
		ActiveOnly: q.ActiveOnly,
	}
}

// ParseAmountRange accepts "min-max", "min-" or "-max".
func ParseAmountRange(s string) (*decimal.Decimal, *decimal.Decimal, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("format rentang harus min-max")
	}
	var lo, hi *decimal.Decimal
	if p := strings.TrimSpace(parts[0]); p != "" {
		d, err := decimal.NewFromString(p)
		if err != nil {
			return nil, nil, fmt.Errorf("nilai minimum tidak valid")
		}
		lo = &d
	}
	if p := strings.TrimSpace(parts[1]); p != "" {
		d, err := decimal.NewFromString(p)
		if err != nil {
			return nil, nil, fmt.Errorf("nilai maksimum tidak valid")
		}
		hi = &d
	}
	if lo != nil && hi != nil && lo.GreaterThan(*hi) {
		return nil, nil, fmt.Errorf("nilai minimum melebihi maksimum")
	}
	return lo, hi, nil
}

// ParseIDList parses a comma separated list of positive ids.
func ParseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("id tidak valid: %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseDateRange parses inclusive calendar dates; the upper bound is moved to the
// end of its day.
func parseDateRange(fromS, toS string, errs FieldErrors) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if fromS != "" {
		t, err := time.ParseInLocation(DateLayout, fromS, time.UTC)
		if err != nil {
			errs["date_from"] = "format tanggal harus YYYY-MM-DD"
		} else {
			from = &t
		}
	}
	if toS != "" {
		t, err := time.ParseInLocation(DateLayout, toS, time.UTC)
		if err != nil {
			errs["date_to"] = "format tanggal harus YYYY-MM-DD"
		} else {
			end := t.Add(24*time.Hour - time.Nanosecond)
			to = &end
		}
	}
	if from != nil && to != nil && from.After(*to) {
		errs["date_to"] = "tanggal akhir sebelum tanggal awal"
	}
	if len(errs) > 0 {
		return nil, nil, errs
	}
	return from, to, nil
}
