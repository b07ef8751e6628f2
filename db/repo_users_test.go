package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instrument-inventory/apperr"
	"instrument-inventory/models"
)

func TestCreateUser(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u, err := r.CreateUser(ctx, "Alice@Example.com", "super-secret", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.NotEqual(t, "super-secret", u.PasswordHash)
	assert.True(t, u.CheckPassword("super-secret"))
}

func TestCreateUserValidation(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.CreateUser(ctx, "", "password123", models.RoleEmployee)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "empty email: %v", err)

	_, err = r.CreateUser(ctx, "not-an-email", "password123", models.RoleEmployee)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "malformed email: %v", err)

	_, err = r.CreateUser(ctx, "a@b.com", "short", models.RoleEmployee)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "weak password: %v", err)

	_, err = r.CreateUser(ctx, "a@b.com", "password123", "superuser")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "bad role: %v", err)
}

func TestCreateUserDefaultsToEmployee(t *testing.T) {
	r := newTestRepo(t)
	u, err := r.CreateUser(context.Background(), "bob@example.com", "password123", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, u.Role)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.CreateUser(ctx, "alice@example.com", "password123", models.RoleEmployee)
	require.NoError(t, err)

	_, err = r.CreateUser(ctx, "ALICE@example.com", "password456", models.RoleEmployee)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "got %v", err)
}

func TestUpdateUserRole(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	promoted, err := r.UpdateUserRole(ctx, u.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	_, err = r.UpdateUserRole(ctx, u.ID, "root")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = r.UpdateUserRole(ctx, "no-such-id", models.RoleAdmin)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestDeleteUser(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	require.NoError(t, r.DeleteUserByID(ctx, u.ID))

	_, err := r.FindUserByID(ctx, u.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	err = r.DeleteUserByID(ctx, u.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListUsersSearch(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	seedUser(t, r, "alice@example.com", models.RoleEmployee)
	seedUser(t, r, "bob@example.com", models.RoleEmployee)

	res, err := r.ListUsers(ctx, "alice", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "alice@example.com", res.Users[0].Email)

	all, err := r.ListUsers(ctx, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)
}

func TestCountAdmins(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	n, err := r.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	seedUser(t, r, "root@example.com", models.RoleAdmin)
	seedUser(t, r, "bob@example.com", models.RoleEmployee)

	n, err = r.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
