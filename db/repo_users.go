package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"instrument-inventory/apperr"
	"instrument-inventory/models"
)

func (r *Repo) CreateUser(ctx context.Context, email, password, role string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Validation("a valid email is required", "email")
	}
	if role == "" {
		role = models.RoleEmployee
	}
	if !models.ValidRole(role) {
		return nil, apperr.Validation("role must be admin or employee", "role")
	}

	u := models.User{ID: uuid.NewString(), Email: email, Role: role}
	if err := u.SetPassword(password); err != nil {
		return nil, apperr.Validation(err.Error(), "password")
	}

	if _, err := r.FindUserByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("email already registered")
	}
	if err := r.DB.WithContext(ctx).Create(&u).Error; err != nil {
		// The unique index backstops the race between the check and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Store("create user", err)
	}
	return &u, nil
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, wrapFind(err, "user")
	}
	return &u, nil
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, wrapFind(err, "user")
	}
	return &u, nil
}

type ListUsersResult struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

func (r *Repo) ListUsers(ctx context.Context, q string, page, size int) (ListUsersResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.User{})
	if q = strings.TrimSpace(q); q != "" {
		tx = tx.Where("LOWER(email) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListUsersResult{}, apperr.Store("count users", err)
	}

	var users []models.User
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&users).Error; err != nil {
		return ListUsersResult{}, apperr.Store("list users", err)
	}
	return ListUsersResult{Users: users, Total: total}, nil
}

func (r *Repo) UpdateUserRole(ctx context.Context, id, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, apperr.Validation("role must be admin or employee", "role")
	}
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role)
	if res.Error != nil {
		return nil, apperr.Store("update user role", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("user")
	}
	return r.FindUserByID(ctx, id)
}

func (r *Repo) DeleteUserByID(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return apperr.Store("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (r *Repo) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&n).Error
	if err != nil {
		return 0, apperr.Store("count admins", err)
	}
	return n, nil
}

func (r *Repo) TouchUserLogin(ctx context.Context, userID, ip, ua string) error {
	now := time.Now().UTC()
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": now,
			"last_seen_at":  now,
			"login_count":   gorm.Expr("COALESCE(login_count, 0) + 1"),
			"last_login_ip": ip,
			"last_login_ua": ua,
		}).Error
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", time.Now().UTC()).Error
}
