package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"securestock/internal/repository"
	custom_error "securestock/pkg/errors"
	"securestock/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("profile not found")

var profileColumns = []interface{}{"id", "email", "full_name", "password_hash", "role", "created_at", "updated_at"}

type UserRepository interface {
	PersistProfile(ctx context.Context, profile *models.Profile) error
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetProfiles(ctx context.Context) ([]models.Profile, error)
	UpdateProfile(ctx context.Context, id string, changes *models.ProfileChanges) error
	DeleteProfile(ctx context.Context, id string) error
	CountProfiles(ctx context.Context) (int64, error)
}

type userRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) UserRepository {
	return &userRepositoryImpl{repository: r}
}

func (r *userRepositoryImpl) PersistProfile(ctx context.Context, profile *models.Profile) error {
	now := time.Now().UTC()
	profile.ID = uuid.NewString()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query := r.repository.GoquDBWrapper.Insert("profiles").
		Rows(goqu.Record{
			"id":            profile.ID,
			"email":         profile.Email,
			"full_name":     profile.FullName,
			"password_hash": profile.PasswordHash,
			"role":          profile.Role.String(),
			"created_at":    now,
			"updated_at":    now,
		})

	if _, err := query.Executor().ExecContext(ctx); err != nil {
		return custom_error.FromDB("failed to insert profile", err)
	}

	return nil
}

func (r *userRepositoryImpl) GetProfiles(ctx context.Context) ([]models.Profile, error) {
	profiles := []models.Profile{}
	query := r.repository.GoquDBWrapper.Select(profileColumns...).
		From("profiles").
		Order(goqu.I("email").Asc())

	if err := query.Executor().ScanStructsContext(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return profiles, nil
}

func (r *userRepositoryImpl) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	return r.getProfileWhere(ctx, goqu.Ex{"id": id})
}

func (r *userRepositoryImpl) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return r.getProfileWhere(ctx, goqu.Ex{"email": email})
}

func (r *userRepositoryImpl) getProfileWhere(ctx context.Context, where goqu.Ex) (*models.Profile, error) {
	var profile models.Profile
	query := r.repository.GoquDBWrapper.Select(profileColumns...).
		From("profiles").
		Where(where)

	found, err := query.Executor().ScanStructContext(ctx, &profile)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if !found {
		return nil, ErrProfileNotFound
	}

	return &profile, nil
}

func (r *userRepositoryImpl) UpdateProfile(ctx context.Context, id string, changes *models.ProfileChanges) error {
	record := goqu.Record{"updated_at": time.Now().UTC()}
	if changes.FullName != nil {
		record["full_name"] = *changes.FullName
	}
	if changes.PasswordHash != nil {
		record["password_hash"] = *changes.PasswordHash
	}
	if changes.Role != nil {
		record["role"] = *changes.Role
	}

	res, err := r.repository.GoquDBWrapper.Update("profiles").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB("failed to update profile", err)
	}

	return requireAffected(res.RowsAffected())
}

func (r *userRepositoryImpl) DeleteProfile(ctx context.Context, id string) error {
	res, err := r.repository.GoquDBWrapper.Delete("profiles").
		Where(goqu.Ex{"id": id}).
		Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB("failed to delete profile", err)
	}

	return requireAffected(res.RowsAffected())
}

func (r *userRepositoryImpl) CountProfiles(ctx context.Context) (int64, error) {
	count, err := r.repository.GoquDBWrapper.From("profiles").CountContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

func requireAffected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	return nil
}
