package adminclient

import (
	"context"
	"errors"
	"fmt"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

var (
	ErrUnknownAction     = errors.New("aksi tidak dikenal")
	ErrIllegalTransition = errors.New("transisi status tidak diizinkan")
)

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id int64, req dto.UpdateStatusRequest) (*dto.OrderView, *dto.Flash, error)
}

// Dispatcher turns one quick-action click into at most one status update request.
// It never changes the order it was given; callers reload the page afterwards.
type Dispatcher struct {
	API     StatusUpdater
	Confirm Confirmer
	Notify  Notifier
	Guard   *Guard
}

func NewDispatcher(api StatusUpdater, confirm Confirmer, notify Notifier, guard *Guard) *Dispatcher {
	if guard == nil {
		guard = &Guard{}
	}
	return &Dispatcher{API: api, Confirm: confirm, Notify: notify, Guard: guard}
}

var actionVerbs = map[string]string{
	model.ActionApprove:  "Konfirmasi",
	model.ActionReject:   "Tolak",
	model.ActionShip:     "Kirim",
	model.ActionCancel:   "Batalkan",
	model.ActionComplete: "Selesaikan",
}

// Dispatch applies action to order o. It reports whether a request was sent.
// Moves the transition table forbids are refused locally with a warning.
func (d *Dispatcher) Dispatch(ctx context.Context, o dto.OrderView, action string) (bool, error) {
	a, known := model.LookupAction(action)
	if !known || !a.Transitional() {
		return false, ErrUnknownAction
	}
	if !model.CanTransition(o.Status, a.Target) {
		d.Notify.Notify(dto.Warning(fmt.Sprintf("Pesanan %s berstatus %s dan tidak dapat diubah menjadi %s",
			o.OrderNumber, model.Badge(o.Status).Label, model.Badge(a.Target).Label)))
		return false, ErrIllegalTransition
	}
	if d.Guard.Pending() {
		return false, nil
	}

	prompt := fmt.Sprintf("%s pesanan %s? Status akan menjadi %s.", actionVerbs[a.Name], o.OrderNumber, model.Badge(a.Target).Label)
	if !d.Confirm.Confirm(ctx, prompt) {
		return false, nil
	}
	if !d.Guard.TryAcquire() {
		return false, nil
	}
	defer d.Guard.Release()

	_, flash, err := d.API.UpdateStatus(ctx, o.ID, dto.UpdateStatusRequest{Status: string(a.Target), Notes: a.Notes})
	if err != nil {
		d.Notify.Notify(flashFor(err))
		return true, err
	}
	if flash == nil {
		flash = dto.Success(a.Notes)
	}
	d.Notify.Notify(flash)
	return true, nil
}
