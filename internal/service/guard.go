package service

import (
	"context"
	"errors"

	"github.com/compoundjoy/server/internal/ctxkeys"
	"github.com/compoundjoy/server/internal/repository"
)

// CallerResolver resolves the identity of whoever is making the call.
type CallerResolver interface {
	ResolveCaller(ctx context.Context) (string, bool)
}

type CallerResolverFunc func(ctx context.Context) (string, bool)

func (f CallerResolverFunc) ResolveCaller(ctx context.Context) (string, bool) {
	return f(ctx)
}

// ContextCaller reads the user id stored by the auth middleware.
var ContextCaller = CallerResolverFunc(func(ctx context.Context) (string, bool) {
	userID := ctxkeys.UserID(ctx)
	return userID, userID != ""
})

// RoleLookup reports whether a user holds the admin capability.
type RoleLookup interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// Guard is the single access check applied by every ledger and admin
// operation. Owners are always read from stored records, never from input.
type Guard struct {
	resolver CallerResolver
	roles    RoleLookup
}

func NewGuard(resolver CallerResolver, roles RoleLookup) *Guard {
	return &Guard{
		resolver: resolver,
		roles:    roles,
	}
}

// Caller returns the resolved caller identity or ErrUnauthenticated.
func (g *Guard) Caller(ctx context.Context) (string, error) {
	callerID, ok := g.resolver.ResolveCaller(ctx)
	if !ok || callerID == "" {
		return "", ErrUnauthenticated
	}
	return callerID, nil
}

// Authorize fails with ErrNotFound when the record is owned by someone else,
// so non-owners cannot tell a foreign record from a missing one.
func (g *Guard) Authorize(callerID, ownerID string) error {
	if callerID == "" || callerID != ownerID {
		return ErrNotFound
	}
	return nil
}

// RequireAdmin resolves the caller and checks the admin capability.
func (g *Guard) RequireAdmin(ctx context.Context) (string, error) {
	callerID, err := g.Caller(ctx)
	if err != nil {
		return "", err
	}

	admin, err := g.roles.IsAdmin(ctx, callerID)
	if err != nil {
		return "", err
	}
	if !admin {
		return "", ErrUnauthorized
	}

	return callerID, nil
}

// ForbidSelf rejects an admin acting on their own account through the bulk
// deletion path.
func (g *Guard) ForbidSelf(callerID, targetUserID string) error {
	if callerID == targetUserID {
		return ErrSelfDeletionForbidden
	}
	return nil
}

// ProfileRoles looks up the admin capability in the profile store.
type ProfileRoles struct {
	repo repository.ProfileRepository
}

func NewProfileRoles(repo repository.ProfileRepository) *ProfileRoles {
	return &ProfileRoles{repo: repo}
}

func (r *ProfileRoles) IsAdmin(ctx context.Context, userID string) (bool, error) {
	profile, err := r.repo.ByUserID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return profile.IsAdmin(), nil
}
