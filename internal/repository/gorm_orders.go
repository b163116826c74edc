package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

type GormOrderRepository struct {
	db *gorm.DB
}

func (r *GormOrderRepository) Create(ctx context.Context, o *model.Order) error {
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}
	return gormErr(r.db.WithContext(ctx).Create(o).Error)
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, number string) (*model.Order, error) {
	return r.first(ctx, "order_number = ?", number)
}

func (r *GormOrderRepository) first(ctx context.Context, query string, arg any) (*model.Order, error) {
	var o model.Order
	err := r.withAssociations(r.db.WithContext(ctx)).Where(query, arg).First(&o).Error
	if err != nil {
		return nil, gormErr(err)
	}
	return &o, nil
}

func (r *GormOrderRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("`timestamp` ASC, id ASC") })
}

func (r *GormOrderRepository) List(ctx context.Context, f dto.OrderFilter) ([]*model.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).Scopes(orderScope(f)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []*model.Order
	err := r.withAssociations(r.db.WithContext(ctx)).
		Scopes(orderScope(f), paginate(f.Offset(), f.PerPage)).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// orderScope applies the list filter as WHERE clauses.
func orderScope(f dto.OrderFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Search != "" {
			like := likePattern(f.Search)
			db = db.Where("(order_number LIKE ? OR customer_name LIKE ? OR customer_email LIKE ? OR tracking_number LIKE ?)", like, like, like, like)
		}
		if len(f.Statuses) > 0 {
			db = db.Where("status IN ?", f.Statuses)
		}
		if f.From != nil {
			db = db.Where("created_at >= ?", *f.From)
		}
		if f.To != nil {
			db = db.Where("created_at <= ?", *f.To)
		}
		if f.MinAmount != nil {
			db = db.Where("total_amount >= ?", *f.MinAmount)
		}
		if f.MaxAmount != nil {
			db = db.Where("total_amount <= ?", *f.MaxAmount)
		}
		if f.TrackingNumber != "" {
			db = db.Where("tracking_number LIKE ?", likePattern(f.TrackingNumber))
		}
		if len(f.UserIDs) > 0 {
			db = db.Where("user_id IN ?", f.UserIDs)
		}
		if len(f.IDs) > 0 {
			db = db.Where("id IN ?", f.IDs)
		}
		return db
	}
}

// UpdateStatus applies the change in one transaction, guarded on the expected
// current status.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id int64, change model.StatusChange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ts := change.Record.Timestamp
		updates := map[string]any{
			"status":     string(change.To),
			"updated_at": ts,
		}
		switch change.To {
		case model.StatusShipped:
			updates["shipped_at"] = ts
		case model.StatusDelivered:
			updates["delivered_at"] = ts
		}
		if change.TrackingNumber != "" {
			updates["tracking_number"] = change.TrackingNumber
		}

		res := tx.Model(&model.Order{}).Where("id = ? AND status = ?", id, string(change.From)).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&model.Order{}).Where("id = ?", id).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrNotFound
			}
			return ErrConflict
		}

		err := tx.Model(&model.StatusRecord{}).
			Where(map[string]any{"order_id": id, "current": true}).
			Update("current", false).Error
		if err != nil {
			return err
		}

		rec := change.Record
		rec.ID = 0
		rec.OrderID = id
		rec.Current = true
		return tx.Create(&rec).Error
	})
}

func (r *GormOrderRepository) UpdateTracking(ctx context.Context, id int64, tracking string) error {
	return r.setColumn(ctx, id, "tracking_number", tracking)
}

func (r *GormOrderRepository) SetInvoiceNumber(ctx context.Context, id int64, invoice string) error {
	return r.setColumn(ctx, id, "invoice_number", invoice)
}

func (r *GormOrderRepository) setColumn(ctx context.Context, id int64, column, value string) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).
		Updates(map[string]any{column: value, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormOrderRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&model.StatusRecord{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *GormOrderRepository) CustomerStats(ctx context.Context, userIDs []int64) (map[int64]model.CustomerStats, error) {
	var rows []struct {
		UserID      int64
		OrdersCount int64
		TotalSpent  decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("user_id, COUNT(*) AS orders_count, COALESCE(SUM(CASE WHEN status <> ? THEN total_amount ELSE 0 END), 0) AS total_spent", string(model.StatusCancelled)).
		Where("user_id IN ?", userIDs).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[int64]model.CustomerStats, len(rows))
	for _, row := range rows {
		out[row.UserID] = model.CustomerStats{OrdersCount: row.OrdersCount, TotalSpent: row.TotalSpent}
	}
	return out, nil
}

func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&n).Error
	return n, err
}
