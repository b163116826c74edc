package adminclient

import (
	"context"
	"fmt"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

// Selection is the set of checked rows of one page. Select-all covers the rows of
// the loaded page only, never every row matching the filter.
type Selection struct {
	page     []int64
	selected map[int64]bool
}

func NewSelection() *Selection {
	return &Selection{selected: map[int64]bool{}}
}

// SetPage replaces the visible rows and drops checks on rows no longer visible.
func (s *Selection) SetPage(ids []int64) {
	s.page = append([]int64(nil), ids...)
	visible := make(map[int64]bool, len(ids))
	for _, id := range ids {
		visible[id] = true
	}
	for id := range s.selected {
		if !visible[id] {
			delete(s.selected, id)
		}
	}
}

func (s *Selection) onPage(id int64) bool {
	for _, v := range s.page {
		if v == id {
			return true
		}
	}
	return false
}

func (s *Selection) Toggle(id int64) {
	if !s.onPage(id) {
		return
	}
	if s.selected[id] {
		delete(s.selected, id)
		return
	}
	s.selected[id] = true
}

// ToggleAll checks every row of the page, or clears the selection when all rows
// are already checked.
func (s *Selection) ToggleAll() {
	if s.AllSelected() {
		s.Clear()
		return
	}
	for _, id := range s.page {
		s.selected[id] = true
	}
}

func (s *Selection) AllSelected() bool {
	if len(s.page) == 0 {
		return false
	}
	for _, id := range s.page {
		if !s.selected[id] {
			return false
		}
	}
	return true
}

func (s *Selection) Selected(id int64) bool { return s.selected[id] }
func (s *Selection) Len() int               { return len(s.selected) }
func (s *Selection) Empty() bool            { return len(s.selected) == 0 }

func (s *Selection) Clear() {
	s.selected = map[int64]bool{}
}

// IDs returns the checked ids in page order.
func (s *Selection) IDs() []int64 {
	out := make([]int64, 0, len(s.selected))
	for _, id := range s.page {
		if s.selected[id] {
			out = append(out, id)
		}
	}
	return out
}

// BulkSendFunc sends one bulk request.
type BulkSendFunc func(ctx context.Context, action, status string, ids []int64) (*dto.BulkResult, *dto.Flash, error)

type OrderBulkAPI interface {
	BulkOrders(ctx context.Context, req dto.BulkOrderRequest) (*dto.BulkResult, *dto.Flash, error)
}

type UserBulkAPI interface {
	BulkUsers(ctx context.Context, req dto.BulkUserRequest) (*dto.BulkResult, *dto.Flash, error)
}

func OrderBulk(api OrderBulkAPI) BulkSendFunc {
	return func(ctx context.Context, action, status string, ids []int64) (*dto.BulkResult, *dto.Flash, error) {
		return api.BulkOrders(ctx, dto.BulkOrderRequest{Action: action, OrderIDs: ids, Status: status})
	}
}

func UserBulk(api UserBulkAPI) BulkSendFunc {
	return func(ctx context.Context, action, _ string, ids []int64) (*dto.BulkResult, *dto.Flash, error) {
		return api.BulkUsers(ctx, dto.BulkUserRequest{Action: action, UserIDs: ids})
	}
}

var bulkLabels = map[string]string{
	model.BulkApproveAll:       "konfirmasi",
	model.BulkRejectAll:        "tolak",
	model.BulkShipAll:          "kirim",
	model.BulkCancelAll:        "batalkan",
	model.BulkCompleteAll:      "selesaikan",
	model.BulkUpdateStatus:     "ubah status",
	model.BulkDelete:           "hapus",
	model.BulkGenerateInvoices: "buat invoice",
	model.BulkExport:           "ekspor",
	model.UserBulkActivate:     "aktifkan",
	model.UserBulkDeactivate:   "nonaktifkan",
}

// BulkCoordinator applies the chosen action to the selection in one request.
type BulkCoordinator struct {
	Send      BulkSendFunc
	Confirm   Confirmer
	Notify    Notifier
	Guard     *Guard
	Selection *Selection
	Noun      string

	action string
	status string
}

func NewBulkCoordinator(send BulkSendFunc, confirm Confirmer, notify Notifier, guard *Guard, sel *Selection, noun string) *BulkCoordinator {
	if guard == nil {
		guard = &Guard{}
	}
	if sel == nil {
		sel = NewSelection()
	}
	return &BulkCoordinator{Send: send, Confirm: confirm, Notify: notify, Guard: guard, Selection: sel, Noun: noun}
}

// Choose sets the action; status is only used by update_status.
func (b *BulkCoordinator) Choose(action, status string) {
	b.action, b.status = action, status
}

func (b *BulkCoordinator) Action() string { return b.action }

// CanExecute is false with an empty selection, no action, or a mutation in flight.
func (b *BulkCoordinator) CanExecute() bool {
	return !b.Selection.Empty() && b.action != "" && !b.Guard.Pending()
}

// Execute confirms and sends the bulk request. It is a silent no-op when
// CanExecute is false or the operator declines. On success the selection is
// cleared; on failure it is kept for a retry.
func (b *BulkCoordinator) Execute(ctx context.Context) (*dto.BulkResult, error) {
	if !b.CanExecute() {
		return nil, nil
	}
	ids := b.Selection.IDs()
	label := bulkLabels[b.action]
	if label == "" {
		label = b.action
	}
	if !b.Confirm.Confirm(ctx, fmt.Sprintf("Jalankan aksi %q untuk %d %s terpilih?", label, len(ids), b.Noun)) {
		return nil, nil
	}
	if !b.Guard.TryAcquire() {
		return nil, nil
	}
	defer b.Guard.Release()

	res, flash, err := b.Send(ctx, b.action, b.status, ids)
	if err != nil {
		b.Notify.Notify(flashFor(err))
		return nil, err
	}
	b.Selection.Clear()
	if flash == nil {
		flash = dto.Success(fmt.Sprintf("%d %s diproses", res.Processed, b.Noun))
	}
	b.Notify.Notify(flash)
	return res, nil
}
