package users

import (
	"context"
	"fmt"

	"github.com/procura-platform/procura/internal/grants"
	"github.com/procura-platform/procura/internal/platform/httpx"
)

// Store defines persistence operations the service depends on.
type Store interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id int64) (User, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// GrantLister exposes a user's sub-role assignment for detail views.
type GrantLister interface {
	ListForUser(ctx context.Context, userID int64) (grants.Assignment, error)
}

// Detail combines the account with its held sub-roles.
type Detail struct {
	User
	SubRoles []grants.SubRoleGrant `json:"subRoles"`
}

// Service wraps user administration rules.
type Service struct {
	repo   Store
	grants GrantLister
}

// NewService constructs a Service.
func NewService(repo Store, grantLister GrantLister) *Service {
	return &Service{repo: repo, grants: grantLister}
}

// List returns all user accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get fetches one account with its sub-role grants.
func (s *Service) Get(ctx context.Context, id int64) (Detail, error) {
	if id <= 0 {
		return Detail{}, fmt.Errorf("%w: invalid user id", httpx.ErrValidation)
	}
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	assignment, err := s.grants.ListForUser(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	return Detail{User: user, SubRoles: assignment.SubRoles}, nil
}

// SetActive activates or deactivates an account. Deactivation takes effect
// at the next token issuance; already-issued sessions run to expiry.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid user id", httpx.ErrValidation)
	}
	return s.repo.SetActive(ctx, id, active)
}
