package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	custom_error "securestock/pkg/errors"
	"securestock/pkg/models"
	"securestock/pkg/roles"
	"securestock/pkg/security"

	"go.uber.org/zap"
)

var (
	ErrInvalidRole = errors.New("invalid role")
	ErrForbidden   = errors.New("only a super admin can manage super_admin profiles")
	ErrSelfDelete  = errors.New("you cannot delete your own account")
	ErrEmailTaken  = errors.New("a profile with this email already exists")
)

type UserService struct {
	repository UserRepository
	logger     *zap.Logger
}

func NewUserService(r UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repository: r, logger: logger}
}

func (s *UserService) GetProfiles(ctx context.Context) ([]models.Profile, error) {
	return s.repository.GetProfiles(ctx)
}

func (s *UserService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	return s.repository.GetProfile(ctx, id)
}

func (s *UserService) CreateProfile(ctx context.Context, actor roles.Role, req models.CreateProfileRequest) (*models.Profile, error) {
	if !req.Role.IsValid() {
		return nil, ErrInvalidRole
	}
	if req.Role == roles.SuperAdmin && actor != roles.SuperAdmin {
		return nil, ErrForbidden
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		Email:        normalizeEmail(req.Email),
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.repository.PersistProfile(ctx, profile); err != nil {
		if custom_error.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return profile, nil
}

// UpdateProfile applies req to the profile. Touching a super_admin profile, or
// promoting someone to super_admin, requires the actor to be a super_admin.
func (s *UserService) UpdateProfile(ctx context.Context, actor roles.Role, id string, req models.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.repository.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.Role == roles.SuperAdmin && actor != roles.SuperAdmin {
		return nil, ErrForbidden
	}

	changes := &models.ProfileChanges{}

	if req.FullName != nil && strings.TrimSpace(*req.FullName) != profile.FullName {
		name := strings.TrimSpace(*req.FullName)
		changes.FullName = &name
	}

	if req.Password != nil && *req.Password != "" {
		hash, err := security.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hash
	}

	if req.Role != nil && *req.Role != profile.Role {
		if !req.Role.IsValid() {
			return nil, ErrInvalidRole
		}
		if *req.Role == roles.SuperAdmin && actor != roles.SuperAdmin {
			return nil, ErrForbidden
		}
		role := req.Role.String()
		changes.Role = &role
	}

	if !changes.HasChanges() {
		return profile, nil
	}

	if err := s.repository.UpdateProfile(ctx, id, changes); err != nil {
		return nil, err
	}

	return s.repository.GetProfile(ctx, id)
}

func (s *UserService) DeleteProfile(ctx context.Context, actorID, id string) (*models.Profile, error) {
	if actorID == id {
		return nil, ErrSelfDelete
	}

	profile, err := s.repository.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repository.DeleteProfile(ctx, id); err != nil {
		return nil, err
	}

	return profile, nil
}

// Bootstrap creates the first super_admin when the profiles table is empty.
// It reports whether an account was created.
func (s *UserService) Bootstrap(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	count, err := s.repository.CountProfiles(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	_, err = s.CreateProfile(ctx, roles.SuperAdmin, models.CreateProfileRequest{
		Email:    email,
		Password: password,
		FullName: "Administrator",
		Role:     roles.SuperAdmin,
	})
	if err != nil {
		return false, fmt.Errorf("failed to bootstrap super admin: %w", err)
	}

	s.logger.Info("bootstrapped super admin account", zap.String("email", normalizeEmail(email)))
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
