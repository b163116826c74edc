package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

func TestUserListCarriesOrderStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.placeOrder(t)
	cancelled := f.placeOrder(t)
	f.advance(t, cancelled.ID, model.StatusCancelled)

	views, total, err := f.users.Customers(ctx, dto.UserFilter{Pagination: dto.Pagination{Page: 1, PerPage: 15}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	byID := map[int64]dto.UserView{}
	for _, v := range views {
		assert.Equal(t, model.RoleBuyer, v.Role)
		byID[v.ID] = v
	}
	assert.Equal(t, int64(2), byID[f.buyer.ID].OrdersCount)
	assert.Equal(t, "159300.00", byID[f.buyer.ID].TotalSpent.StringFixed(2))
	assert.Equal(t, int64(0), byID[f.inactive.ID].OrdersCount)
	assert.True(t, byID[f.inactive.ID].TotalSpent.IsZero())
}

func TestCreateAndUpdateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Create(ctx, dto.CreateUserRequest{
		Name: "Rina", Email: " Rina@Example.com ", Password: "password123", Role: model.RoleBuyer,
	})
	require.NoError(t, err)
	assert.Equal(t, "rina@example.com", u.Email)
	assert.True(t, u.Active)

	_, err = f.users.Create(ctx, dto.CreateUserRequest{
		Name: "Rina 2", Email: "rina@example.com", Password: "password123", Role: model.RoleBuyer,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = f.users.Update(ctx, u.ID, dto.UpdateUserRequest{Email: "budi@example.com"}, f.admin.ID)
	assert.ErrorIs(t, err, ErrEmailTaken)

	updated, err := f.users.Update(ctx, u.ID, dto.UpdateUserRequest{Phone: "08123"}, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "08123", updated.Phone)
	assert.Equal(t, "Rina", updated.Name)

	off := false
	_, err = f.users.Update(ctx, f.admin.ID, dto.UpdateUserRequest{Active: &off}, f.admin.ID)
	assert.ErrorIs(t, err, ErrSelfModify)

	_, err = f.users.Update(ctx, f.admin.ID, dto.UpdateUserRequest{Role: model.RoleBuyer}, f.admin.ID)
	assert.ErrorIs(t, err, ErrSelfModify)
	self, err := f.users.Update(ctx, f.admin.ID, dto.UpdateUserRequest{Role: model.RoleAdmin, Phone: "0811"}, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, self.Role)

	promoted, err := f.users.Update(ctx, u.ID, dto.UpdateUserRequest{Role: model.RoleAdmin}, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, promoted.Role)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assert.ErrorIs(t, f.users.Delete(ctx, f.admin.ID, f.admin.ID), ErrSelfModify)
	require.NoError(t, f.users.Delete(ctx, f.inactive.ID, f.admin.ID))
	assert.ErrorIs(t, f.users.Delete(ctx, f.inactive.ID, f.admin.ID), ErrNotFound)
}

func TestUserBulkSkipsActor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.users.Bulk(ctx, dto.BulkUserRequest{
		Action:  model.UserBulkDeactivate,
		UserIDs: []int64{f.admin.ID, f.buyer.ID},
	}, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, f.admin.ID, res.Failed[0].ID)

	admin, _ := f.repos.Users.FindByID(ctx, f.admin.ID)
	buyer, _ := f.repos.Users.FindByID(ctx, f.buyer.ID)
	assert.True(t, admin.Active)
	assert.False(t, buyer.Active)

	res, err = f.users.Bulk(ctx, dto.BulkUserRequest{Action: model.UserBulkActivate, UserIDs: []int64{f.buyer.ID, f.inactive.ID}}, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)

	_, err = f.users.Bulk(ctx, dto.BulkUserRequest{Action: model.BulkApproveAll, UserIDs: []int64{f.buyer.ID}}, f.admin.ID)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestAuthLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := NewAuthService(f.repos.Users, f.repos.Roles, "test-secret", time.Hour)

	res, err := auth.Login(ctx, "ADMIN@grocery.local", "password123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, res.Role)

	user, err := auth.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, f.admin.ID, user.ID)
	assert.True(t, auth.IsAdmin(user))
	assert.True(t, user.Can(model.PermOrdersManage))

	_, err = auth.Login(ctx, "admin@grocery.local", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, "sari@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	other := NewAuthService(f.repos.Users, f.repos.Roles, "other-secret", time.Hour)
	_, err = other.ValidateToken(res.Token)
	assert.Error(t, err)

	expired := NewAuthService(f.repos.Users, f.repos.Roles, "test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.ValidateToken(res.Token)
	assert.Error(t, err)
}
