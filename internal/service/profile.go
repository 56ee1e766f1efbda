package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/compoundjoy/server/internal/model"
	"github.com/compoundjoy/server/internal/repository"
	"github.com/compoundjoy/server/internal/validation"
)

const defaultAdminName = "Admin"

type ProfileService struct {
	profileRepo repository.ProfileRepository
	guard       *Guard
}

func NewProfileService(profileRepo repository.ProfileRepository, guard *Guard) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		guard:       guard,
	}
}

// MyProfile returns the caller's profile or ErrNotFound when none exists yet.
func (s *ProfileService) MyProfile(ctx context.Context) (*model.Profile, error) {
	userID, err := s.guard.Caller(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.ByUserID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, ErrNotFound
	}
	return profile, err
}

// Upsert creates or updates the caller's display profile. New profiles get
// the user role; existing roles are left alone.
func (s *ProfileService) Upsert(ctx context.Context, displayName, imageURL, status string) (*model.Profile, error) {
	userID, err := s.guard.Caller(ctx)
	if err != nil {
		return nil, err
	}

	displayName = strings.TrimSpace(displayName)
	if err := validation.ValidateName(displayName); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	profile := &model.Profile{
		UserID:      userID,
		DisplayName: displayName,
		ImageURL:    strings.TrimSpace(imageURL),
		Status:      strings.TrimSpace(status),
	}

	err = s.profileRepo.Upsert(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	return s.profileRepo.ByUserID(ctx, userID)
}

func (s *ProfileService) IsAdmin(ctx context.Context) (bool, error) {
	userID, err := s.guard.Caller(ctx)
	if err != nil {
		return false, err
	}
	return s.guard.roles.IsAdmin(ctx, userID)
}

func (s *ProfileService) Profiles(ctx context.Context) ([]*model.Profile, error) {
	if _, err := s.guard.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.profileRepo.Profiles(ctx)
}

func (s *ProfileService) SetRole(ctx context.Context, profileID, role string) error {
	callerID, err := s.guard.RequireAdmin(ctx)
	if err != nil {
		return err
	}

	if !model.ValidRole(role) {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	err = s.profileRepo.SetRole(ctx, profileID, role)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	slog.Info("profile role changed", "admin_id", callerID, "profile_id", profileID, "role", role)
	return nil
}

// DeleteAccount removes another user's profile together with all of their
// goals and contributions. Admins can never delete themselves here.
func (s *ProfileService) DeleteAccount(ctx context.Context, profileID string) error {
	callerID, err := s.guard.RequireAdmin(ctx)
	if err != nil {
		return err
	}

	target, err := s.profileRepo.ByID(ctx, profileID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := s.guard.ForbidSelf(callerID, target.UserID); err != nil {
		return err
	}

	err = s.profileRepo.DeleteAccount(ctx, profileID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return ErrNotFound
	}
	if err != nil {
		slog.Error("failed to delete account", "error", err, "admin_id", callerID, "profile_id", profileID)
		return fmt.Errorf("failed to delete account: %w", err)
	}

	slog.Info("account deleted", "admin_id", callerID, "user_id", target.UserID)
	return nil
}

// ClaimAdmin grants the caller the admin role if nobody has claimed it yet.
func (s *ProfileService) ClaimAdmin(ctx context.Context) error {
	userID, err := s.guard.Caller(ctx)
	if err != nil {
		return err
	}

	displayName := defaultAdminName
	if profile, err := s.profileRepo.ByUserID(ctx, userID); err == nil {
		displayName = profile.DisplayName
	}

	err = s.profileRepo.ClaimAdmin(ctx, userID, displayName)
	if errors.Is(err, repository.ErrAdminExists) {
		return ErrAdminExists
	}
	if err != nil {
		return fmt.Errorf("failed to claim admin: %w", err)
	}

	slog.Info("admin claimed", "user_id", userID)
	return nil
}
