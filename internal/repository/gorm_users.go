package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

type GormUserRepository struct {
	db *gorm.DB
}

func (r *GormUserRepository) Create(ctx context.Context, u *model.User) error {
	return gormErr(r.db.WithContext(ctx).Create(u).Error)
}

func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, gormErr(err)
	}
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, gormErr(err)
	}
	return &u, nil
}

func (r *GormUserRepository) List(ctx context.Context, f dto.UserFilter) ([]*model.User, int64, error) {
	total, err := r.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	var out []*model.User
	err = r.db.WithContext(ctx).
		Scopes(userScope(f), paginate(f.Offset(), f.PerPage)).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *GormUserRepository) Count(ctx context.Context, f dto.UserFilter) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Scopes(userScope(f)).Count(&n).Error
	return n, err
}

func userScope(f dto.UserFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Search != "" {
			like := likePattern(f.Search)
			db = db.Where("(name LIKE ? OR email LIKE ? OR phone LIKE ?)", like, like, like)
		}
		if f.Role != "" {
			db = db.Where("role = ?", f.Role)
		}
		if f.Active != nil {
			db = db.Where("active = ?", *f.Active)
		}
		if f.From != nil {
			db = db.Where("created_at >= ?", *f.From)
		}
		if f.To != nil {
			db = db.Where("created_at <= ?", *f.To)
		}
		if len(f.IDs) > 0 {
			db = db.Where("id IN ?", f.IDs)
		}
		return db
	}
}

func (r *GormUserRepository) Update(ctx context.Context, u *model.User) error {
	if _, err := r.FindByID(ctx, u.ID); err != nil {
		return err
	}
	return gormErr(r.db.WithContext(ctx).Save(u).Error)
}

func (r *GormUserRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive returns the number of matched users, including those already in the
// requested state.
func (r *GormUserRepository) SetActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	var matched int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).Where("id IN ?", ids).Count(&matched).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("id IN ?", ids).
			Updates(map[string]any{"active": active, "updated_at": time.Now().UTC()}).Error
	})
	return matched, err
}

type GormRoleRepository struct {
	db *gorm.DB
}

func (r *GormRoleRepository) SaveRole(ctx context.Context, role *model.Role) error {
	existing, err := r.FindRole(ctx, role.Name)
	switch {
	case err == nil:
		existing.Permissions = role.Permissions
		if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
			return err
		}
		*role = *existing
		return nil
	case err != ErrNotFound:
		return err
	}
	return gormErr(r.db.WithContext(ctx).Create(role).Error)
}

func (r *GormRoleRepository) FindRole(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).First(&role, "name = ?", name).Error; err != nil {
		return nil, gormErr(err)
	}
	return &role, nil
}

func (r *GormRoleRepository) ListRoles(ctx context.Context) ([]*model.Role, error) {
	var out []*model.Role
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}
