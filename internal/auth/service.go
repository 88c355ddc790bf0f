package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/procura-platform/procura/internal/authz"
	"github.com/procura-platform/procura/internal/grants"
	"github.com/procura-platform/procura/internal/platform/httpx"
)

// GrantSource supplies a user's held sub-role grants at issuance time.
type GrantSource interface {
	ListForUser(ctx context.Context, userID int64) ([]grants.SubRoleGrant, error)
}

// Service wraps authentication and session issuance.
type Service struct {
	repo    Repository
	grants  GrantSource
	catalog *authz.Catalog
	tokens  *TokenService
	store   *SessionStore
}

// NewService constructs a Service.
func NewService(repo Repository, grantSource GrantSource, catalog *authz.Catalog, tokens *TokenService, store *SessionStore) *Service {
	return &Service{
		repo:    repo,
		grants:  grantSource,
		catalog: catalog,
		tokens:  tokens,
		store:   store,
	}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, httpx.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, httpx.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, httpx.ErrUnauthorized
	}
	return user, nil
}

// IssueSession resolves the user's permissions against the catalog, signs a
// token, and registers it. Any failure surfaces as an authentication
// failure; a partial session is never returned.
//
// Procurement users holding no sub-role get full access. That is the
// platform's historical default, kept deliberately rather than hardened
// here.
func (s *Service) IssueSession(ctx context.Context, user *User, ip, ua string) (*authz.Session, error) {
	now := time.Now().UTC()
	sess := &authz.Session{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		ExpiresAt:   now.Add(s.tokens.TTL()),
	}

	switch user.Role {
	case authz.RoleAdmin:
		sess.Permissions = authz.FullAccess()
	case authz.RoleProcurement:
		held, err := s.grants.ListForUser(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("auth: load grants: %w", err)
		}
		if len(held) == 0 {
			sess.Permissions = authz.FullAccess()
			break
		}
		sess.SubRoles, sess.Permissions, sess.Grants = s.resolve(held)
	case authz.RoleSupplier:
		// Role alone gates supplier routes.
	default:
		return nil, fmt.Errorf("auth: unknown role %q", user.Role)
	}

	tokenID := uuid.NewString()
	token, err := s.tokens.Sign(sess, tokenID, now)
	if err != nil {
		return nil, fmt.Errorf("auth: sign token: %w", err)
	}
	sess.Token = token

	if err := s.store.Save(ctx, tokenID, user.ID, sess.ExpiresAt); err != nil {
		return nil, fmt.Errorf("auth: register token: %w", err)
	}
	if err := s.repo.CreateSession(ctx, tokenID, user.ID, sess.ExpiresAt, ip, ua); err != nil {
		return nil, fmt.Errorf("auth: persist session: %w", err)
	}

	return sess, nil
}

// resolve merges the held sub-roles into the session-level action set and
// builds the per-menu grant table. Each sub-role contributes its recorded
// flags to every menu key the catalog assigns it; a record with no flag set
// falls back to the catalog defaults per key. Per-menu grants stay keyed so
// the guard can do exact lookups.
func (s *Service) resolve(held []grants.SubRoleGrant) ([]string, authz.ActionSet, map[authz.Key]authz.ActionSet) {
	names := make([]string, 0, len(held))
	perMenu := make(map[authz.Key]authz.ActionSet)
	var overall authz.ActionSet

	for _, grant := range held {
		names = append(names, grant.Name)
		keys := s.catalog.PermissionsForSubRole(grant.Name)

		effective := grant.Actions
		if effective.IsZero() {
			defaults := make([]authz.ActionSet, 0, len(keys))
			for _, key := range keys {
				defaults = append(defaults, s.catalog.ActionDefaults(key))
			}
			effective = authz.Merge(defaults...)
		}
		overall = authz.Merge(overall, effective)

		for _, key := range keys {
			actions := grant.Actions
			if actions.IsZero() {
				actions = s.catalog.ActionDefaults(key)
			}
			perMenu[key] = authz.Merge(perMenu[key], actions)
		}
	}
	return names, overall, perMenu
}

// Logout revokes the registry entry behind a presented token.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return httpx.ErrUnauthorized
	}
	return s.Revoke(ctx, claims.ID)
}

// Revoke invalidates an issued token.
func (s *Service) Revoke(ctx context.Context, tokenID string) error {
	if err := s.store.Revoke(ctx, tokenID); err != nil {
		return err
	}
	return s.repo.DeleteSession(ctx, tokenID)
}

// VerifyToken validates a bearer token against the signature and the
// server-side registry and rebuilds its session.
func (s *Service) VerifyToken(ctx context.Context, token string) (*authz.Session, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	registered, err := s.store.Exists(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, httpx.ErrUnauthorized
	}
	return claims.Session(token)
}
