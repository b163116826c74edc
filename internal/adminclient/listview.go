package adminclient

import (
	"context"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

type OrderLister interface {
	ListOrders(ctx context.Context, path string, q dto.OrderQuery) (*dto.Paginated[dto.OrderView], error)
}

// ListView holds one order list page: the filter form, the last page the server
// returned and the row selection.
type ListView struct {
	API       OrderLister
	Path      string
	Notify    Notifier
	Selection *Selection

	Query dto.OrderQuery
	Page  *dto.Paginated[dto.OrderView]
}

func NewListView(api OrderLister, path string, notify Notifier) *ListView {
	return &ListView{API: api, Path: path, Notify: notify, Selection: NewSelection()}
}

// Load fetches the page for the current query. On failure the last page stays on
// screen and the error is shown as a flash.
func (v *ListView) Load(ctx context.Context) error {
	page, err := v.API.ListOrders(ctx, v.Path, v.Query)
	if err != nil {
		v.Notify.Notify(flashFor(err))
		return err
	}
	v.Page = page
	ids := make([]int64, 0, len(page.Data))
	for _, o := range page.Data {
		ids = append(ids, o.ID)
	}
	v.Selection.SetPage(ids)
	return nil
}

// Submit applies a new filter form. The page always restarts at 1.
func (v *ListView) Submit(ctx context.Context, q dto.OrderQuery) error {
	q.Page = 1
	if q.PerPage == 0 {
		q.PerPage = v.Query.PerPage
	}
	v.Query = q
	return v.Load(ctx)
}

func (v *ListView) GoTo(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	if v.Page != nil && page > v.Page.Meta.LastPage {
		page = v.Page.Meta.LastPage
	}
	v.Query.Page = page
	return v.Load(ctx)
}

func (v *ListView) Rows() []dto.OrderView {
	if v.Page == nil {
		return nil
	}
	return v.Page.Data
}

func (v *ListView) Empty() bool {
	return len(v.Rows()) == 0
}

func (v *ListView) filtered() bool {
	q := v.Query
	return q.Search != "" || q.DateFrom != "" || q.DateTo != "" || q.AmountRange != "" || q.TrackingNumber != ""
}

// EmptyMessage is the placeholder shown instead of the table.
func (v *ListView) EmptyMessage() string {
	if v.filtered() {
		return "Tidak ada pesanan yang cocok dengan filter"
	}
	return "Belum ada pesanan"
}

// RowActions lists the quick actions offered for a row on this page.
func (v *ListView) RowActions(o dto.OrderView) []string {
	return model.PageActions(o.Status)
}
