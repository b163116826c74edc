package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

const bulkStatusNote = "Perubahan status massal"

// Bulk applies one action to every selected order in a single call. Each order is
// handled on its own; failures are reported per id and do not stop the others.
func (s *OrderService) Bulk(ctx context.Context, req dto.BulkOrderRequest, actorID int64) (*dto.BulkResult, error) {
	ids := uniqueIDs(req.OrderIDs)
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}
	if !model.KnownBulkAction(req.Action) {
		return nil, ErrUnknownAction
	}

	res := &dto.BulkResult{Action: req.Action, Requested: len(ids), Failed: []dto.BulkFailure{}}

	switch req.Action {
	case model.BulkExport:
		res.DownloadURL = ExportURL("/admin/orders/export", ids)
		res.Processed = len(ids)

	case model.BulkDelete:
		for _, id := range ids {
			if err := s.Delete(ctx, id); err != nil {
				res.Fail(id, err)
				continue
			}
			res.Processed++
		}

	case model.BulkGenerateInvoices:
		for _, id := range ids {
			if _, err := s.GenerateInvoice(ctx, id); err != nil {
				res.Fail(id, err)
				continue
			}
			res.Processed++
		}

	case model.BulkUpdateStatus:
		if req.Status == "" {
			return nil, dto.FieldErrors{"status": "status wajib diisi untuk aksi ini"}
		}
		if _, ok := model.ParseStatus(req.Status); !ok {
			return nil, dto.FieldErrors{"status": ErrInvalidStatus.Error()}
		}
		s.bulkTransition(ctx, ids, req.Status, bulkStatusNote, actorID, res)

	default:
		a, _ := model.BulkQuickAction(req.Action)
		s.bulkTransition(ctx, ids, string(a.Target), a.Notes, actorID, res)
	}
	return res, nil
}

func (s *OrderService) bulkTransition(ctx context.Context, ids []int64, status, notes string, actorID int64, res *dto.BulkResult) {
	for _, id := range ids {
		if _, err := s.UpdateStatus(ctx, id, status, notes, "", actorID); err != nil {
			res.Fail(id, err)
			continue
		}
		res.Processed++
	}
}

// ExportURL builds the download link for an export restricted to ids.
func ExportURL(path string, ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	q := url.Values{}
	q.Set("ids", strings.Join(parts, ","))
	return path + "?" + q.Encode()
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
