package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/compoundjoy/server/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrAdminExists     = errors.New("admin already exists")
)

type ProfileRepository interface {
	ByUserID(ctx context.Context, userID string) (*model.Profile, error)
	ByID(ctx context.Context, profileID string) (*model.Profile, error)
	Profiles(ctx context.Context) ([]*model.Profile, error)
	Upsert(ctx context.Context, profile *model.Profile) error
	SetRole(ctx context.Context, profileID, role string) error
	DeleteAccount(ctx context.Context, profileID string) error
	ClaimAdmin(ctx context.Context, userID, displayName string) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) ByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, `SELECT * FROM profiles WHERE user_id = $1`, userID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) ByID(ctx context.Context, profileID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, `SELECT * FROM profiles WHERE id = $1`, profileID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) Profiles(ctx context.Context) ([]*model.Profile, error) {
	profiles := []*model.Profile{}
	err := r.db.SelectContext(ctx, &profiles, `SELECT * FROM profiles ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// Upsert creates the profile for profile.UserID or updates its display
// fields. The role of an existing profile is never changed here.
func (r *profileRepository) Upsert(ctx context.Context, profile *model.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.Role == "" {
		profile.Role = model.RoleUser
	}
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, user_id, display_name, image_url, status, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE
		SET display_name = excluded.display_name,
		    image_url = excluded.image_url,
		    status = excluded.status,
		    updated_at = excluded.updated_at
	`, profile.ID, profile.UserID, profile.DisplayName, profile.ImageURL, profile.Status, profile.Role, profile.CreatedAt, profile.UpdatedAt)

	return err
}

func (r *profileRepository) SetRole(ctx context.Context, profileID, role string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET role = $1, updated_at = $2
		WHERE id = $3
	`, role, time.Now(), profileID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// DeleteAccount removes every contribution and goal owned by the profile's
// user, then the profile itself, in one transaction.
func (r *profileRepository) DeleteAccount(ctx context.Context, profileID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID string
	err = tx.GetContext(ctx, &userID, `SELECT user_id FROM profiles WHERE id = $1`, profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProfileNotFound
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM contributions
		WHERE user_id = $1 OR goal_id IN (SELECT id FROM goals WHERE user_id = $1)
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete contributions: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM goals WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goals: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, profileID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	return tx.Commit()
}

// ClaimAdmin grants the admin role to userID only if no admin has ever been
// bootstrapped. The conflicting insert on admin_bootstrap and the role grant
// commit together, so two concurrent claims cannot both succeed.
func (r *profileRepository) ClaimAdmin(ctx context.Context, userID, displayName string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO admin_bootstrap (id, user_id, claimed_at)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO NOTHING
	`, userID, now)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAdminExists
	}

	var admins int
	err = tx.GetContext(ctx, &admins, `SELECT COUNT(*) FROM profiles WHERE role = $1`, model.RoleAdmin)
	if err != nil {
		return err
	}
	if admins > 0 {
		return ErrAdminExists
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (id, user_id, display_name, image_url, status, role, created_at, updated_at)
		VALUES ($1, $2, $3, '', '', $4, $5, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET role = excluded.role,
		    updated_at = excluded.updated_at
	`, uuid.New().String(), userID, displayName, model.RoleAdmin, now)
	if err != nil {
		return err
	}

	return tx.Commit()
}
