package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sbci/institute-api/internal/models"
	"github.com/sbci/institute-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// Mock UserRepository
type mockUserRepository struct {
	repository.UserRepository
	mockFindByID   func(ctx context.Context, id uint) (*models.User, error)
	mockUpdate     func(ctx context.Context, user *models.User) error
	mockSoftDelete func(ctx context.Context, id uint) error
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) SoftDelete(ctx context.Context, id uint) error {
	if m.mockSoftDelete != nil {
		return m.mockSoftDelete(ctx, id)
	}
	return nil
}

// Mock RefreshTokenRepository
type mockRefreshTokenRepository struct {
	repository.RefreshTokenRepository
	mockDeleteByUser func(ctx context.Context, userID uint) error
}

func (m *mockRefreshTokenRepository) DeleteByUser(ctx context.Context, userID uint) error {
	if m.mockDeleteByUser != nil {
		return m.mockDeleteByUser(ctx, userID)
	}
	return nil
}

func staffUser(id uint) *models.User {
	return &models.User{ID: id, FullName: "Priya Singh", Email: "priya@sbci.in", Role: models.RoleStaff, Status: models.StatusActive}
}

func TestDeleteUser_RevokesSessions(t *testing.T) {
	userRepo := &mockUserRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return staffUser(id), nil
		},
	}
	var revokedUserID uint
	tokenRepo := &mockRefreshTokenRepository{
		mockDeleteByUser: func(ctx context.Context, userID uint) error {
			revokedUserID = userID
			return nil
		},
	}
	svc := NewUserService(userRepo, tokenRepo, nil)

	err := svc.Delete(context.Background(), 5, 1)
	assert.NoError(t, err)
	assert.Equal(t, uint(5), revokedUserID)
}

func TestDeleteUser_RevocationFailureSurfaces(t *testing.T) {
	userRepo := &mockUserRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return staffUser(id), nil
		},
	}
	revokeErr := errors.New("token store unavailable")
	tokenRepo := &mockRefreshTokenRepository{
		mockDeleteByUser: func(ctx context.Context, userID uint) error {
			return revokeErr
		},
	}
	svc := NewUserService(userRepo, tokenRepo, nil)

	err := svc.Delete(context.Background(), 5, 1)
	assert.ErrorIs(t, err, revokeErr)
}

func TestDeleteUser_SelfDeleteRejected(t *testing.T) {
	userRepo := &mockUserRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return staffUser(id), nil
		},
	}
	svc := NewUserService(userRepo, &mockRefreshTokenRepository{}, nil)

	err := svc.Delete(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSuspendUser_RevokesSessions(t *testing.T) {
	var updated *models.User
	userRepo := &mockUserRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return staffUser(id), nil
		},
		mockUpdate: func(ctx context.Context, user *models.User) error {
			updated = user
			return nil
		},
	}
	var revokedUserID uint
	tokenRepo := &mockRefreshTokenRepository{
		mockDeleteByUser: func(ctx context.Context, userID uint) error {
			revokedUserID = userID
			return nil
		},
	}
	svc := NewUserService(userRepo, tokenRepo, nil)

	err := svc.Suspend(context.Background(), 5, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusSuspended, updated.Status)
	assert.Equal(t, uint(5), revokedUserID)
}
