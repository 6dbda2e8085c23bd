package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sbci/institute-api/internal/models"
	"github.com/sbci/institute-api/internal/repository"
	"gorm.io/gorm"
)

// CreateUserCommand is the typed input for staff account creation
type CreateUserCommand struct {
	FullName string
	Email    string
	Phone    string
	Role     string
	Password string
}

type UserService struct {
	repo             repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	auditSvc         *AuditService
}

func NewUserService(
	repo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	auditSvc *AuditService,
) *UserService {
	return &UserService{
		repo:             repo,
		refreshTokenRepo: refreshTokenRepo,
		auditSvc:         auditSvc,
	}
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *UserService) Create(ctx context.Context, cmd CreateUserCommand, actorID uint) (*models.User, error) {
	if cmd.FullName == "" || cmd.Email == "" || cmd.Password == "" {
		return nil, fmt.Errorf("%w: full name, email and password are required", ErrInvalidArgument)
	}
	if cmd.Role != models.RoleAdmin && cmd.Role != models.RoleStaff {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, cmd.Role)
	}
	if len(cmd.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidArgument)
	}

	hash, err := HashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:          cmd.FullName,
		Email:             cmd.Email,
		Phone:             cmd.Phone,
		Role:              cmd.Role,
		EncryptedPassword: hash,
		Status:            models.StatusActive,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "User", user.ID,
		fmt.Sprintf("Staff account %s (%s) created", user.FullName, user.Role), "", "")

	return user, nil
}

func (s *UserService) Update(ctx context.Context, user *models.User) error {
	return s.repo.Update(ctx, user)
}

// ChangePassword sets a new password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, id uint, current, next string) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !VerifyPassword(current, user.EncryptedPassword) {
		return ErrInvalidPassword
	}
	if len(next) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidArgument)
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	user.EncryptedPassword = hash
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	// Force re-login everywhere
	return s.refreshTokenRepo.DeleteByUser(ctx, user.ID)
}

// Suspend blocks the account and revokes its sessions. The account and its
// collected-payment references stay intact.
func (s *UserService) Suspend(ctx context.Context, id uint, actorID uint) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if id == actorID {
		return fmt.Errorf("%w: cannot suspend your own account", ErrInvalidArgument)
	}

	user.Status = models.StatusSuspended
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	return s.refreshTokenRepo.DeleteByUser(ctx, user.ID)
}

// Activate restores a suspended account
func (s *UserService) Activate(ctx context.Context, id uint) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Status = models.StatusActive
	return s.repo.Update(ctx, user)
}

// Delete soft-deletes the account. Payments keep their collector reference.
func (s *UserService) Delete(ctx context.Context, id uint, actorID uint) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if id == actorID {
		return fmt.Errorf("%w: cannot delete your own account", ErrInvalidArgument)
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	if err := s.refreshTokenRepo.DeleteByUser(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "DELETE", "User", user.ID,
		fmt.Sprintf("Staff account %s removed", user.FullName), "", "")
	return nil
}
