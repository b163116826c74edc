package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
	"grocery-admin/internal/repository"
)

type UserService struct {
	users  UserRepository
	orders OrderRepository
	now    func() time.Time
}

func NewUserService(users UserRepository, orders OrderRepository) *UserService {
	return &UserService{
		users:  users,
		orders: orders,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns users with their order aggregates attached.
func (s *UserService) List(ctx context.Context, f dto.UserFilter) ([]dto.UserView, int64, error) {
	users, total, err := s.users.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.withStats(ctx, users)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Customers lists buyers only.
func (s *UserService) Customers(ctx context.Context, f dto.UserFilter) ([]dto.UserView, int64, error) {
	f.Role = model.RoleBuyer
	return s.List(ctx, f)
}

func (s *UserService) Get(ctx context.Context, id int64) (dto.UserView, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return dto.UserView{}, err
	}
	views, err := s.withStats(ctx, []*model.User{u})
	if err != nil {
		return dto.UserView{}, err
	}
	return views[0], nil
}

func (s *UserService) withStats(ctx context.Context, users []*model.User) ([]dto.UserView, error) {
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	stats := map[int64]model.CustomerStats{}
	if len(ids) > 0 {
		var err error
		stats, err = s.orders.CustomerStats(ctx, ids)
		if err != nil {
			return nil, err
		}
	}
	views := make([]dto.UserView, 0, len(users))
	for _, u := range users {
		st, ok := stats[u.ID]
		if !ok {
			st = model.CustomerStats{TotalSpent: decimal.Zero}
		}
		views = append(views, dto.UserView{User: u, CustomerStats: st})
	}
	return views, nil
}

func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (*model.User, error) {
	email := normalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}
	now := s.now()
	u := &model.User{
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		Role:      req.Role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Active != nil {
		u.Active = *req.Active
	}
	if err := u.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id int64, req dto.UpdateUserRequest, actorID int64) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		u.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		email := normalizeEmail(req.Email)
		if email != u.Email {
			if err := s.ensureEmailFree(ctx, email, u.ID); err != nil {
				return nil, err
			}
			u.Email = email
		}
	}
	if req.Password != "" {
		if err := u.SetPassword(req.Password); err != nil {
			return nil, err
		}
	}
	if req.Phone != "" {
		u.Phone = strings.TrimSpace(req.Phone)
	}
	if req.Address != "" {
		u.Address = strings.TrimSpace(req.Address)
	}
	if req.Role != "" {
		if req.Role != u.Role && u.ID == actorID {
			return nil, ErrSelfModify
		}
		u.Role = req.Role
	}
	if req.Active != nil {
		if !*req.Active && u.ID == actorID {
			return nil, ErrSelfModify
		}
		u.Active = *req.Active
	}
	u.UpdatedAt = s.now()
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id, actorID int64) error {
	if id == actorID {
		return ErrSelfModify
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

// Bulk applies activate, deactivate, delete or export to the selected users. The
// acting admin is never deactivated or deleted by a bulk action.
func (s *UserService) Bulk(ctx context.Context, req dto.BulkUserRequest, actorID int64) (*dto.BulkResult, error) {
	ids := uniqueIDs(req.UserIDs)
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}
	if !model.KnownUserBulkAction(req.Action) {
		return nil, ErrUnknownAction
	}
	res := &dto.BulkResult{Action: req.Action, Requested: len(ids), Failed: []dto.BulkFailure{}}

	switch req.Action {
	case model.UserBulkExport:
		res.DownloadURL = ExportURL("/admin/users/export", ids)
		res.Processed = len(ids)
		return res, nil

	case model.UserBulkActivate:
		n, err := s.users.SetActive(ctx, ids, true)
		if err != nil {
			return nil, err
		}
		res.Processed = int(n)
		return res, nil
	}

	var targets []int64
	for _, id := range ids {
		if id == actorID {
			res.Fail(id, ErrSelfModify)
			continue
		}
		targets = append(targets, id)
	}

	switch req.Action {
	case model.UserBulkDeactivate:
		if len(targets) > 0 {
			n, err := s.users.SetActive(ctx, targets, false)
			if err != nil {
				return nil, err
			}
			res.Processed = int(n)
		}
	case model.UserBulkDelete:
		for _, id := range targets {
			if err := s.users.Delete(ctx, id); err != nil {
				res.Fail(id, err)
				continue
			}
			res.Processed++
		}
	}
	return res, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil && existing.ID != selfID {
		return ErrEmailTaken
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
