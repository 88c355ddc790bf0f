package grants

import (
	"context"
	"fmt"
	"strings"

	"github.com/procura-platform/procura/internal/authz"
	"github.com/procura-platform/procura/internal/platform/httpx"
)

// AuditNotifier receives grant changes after they commit. Delivery is best
// effort and never blocks the write path.
type AuditNotifier interface {
	GrantChanged(ctx context.Context, grant SubRoleGrant)
}

// Service wraps sub-role grant business rules.
type Service struct {
	repo     Repository
	notifier AuditNotifier
}

// NewService constructs a Service. The notifier may be nil.
func NewService(repo Repository, notifier AuditNotifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Assign replaces the user's grant under the named sub-role with the given
// action flags. Successive writes to the same name overwrite each other;
// the returned Assignment merges action sets across the distinct names the
// user now holds.
func (s *Service) Assign(ctx context.Context, userID int64, name string, actions authz.ActionSet) (Assignment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Assignment{}, fmt.Errorf("%w: sub-role name required", httpx.ErrValidation)
	}
	if userID <= 0 {
		return Assignment{}, fmt.Errorf("%w: invalid user id", httpx.ErrValidation)
	}

	grant := SubRoleGrant{UserID: userID, Name: name, Actions: actions}
	held, err := s.repo.Replace(ctx, grant)
	if err != nil {
		return Assignment{}, err
	}

	if s.notifier != nil {
		s.notifier.GrantChanged(ctx, grant)
	}

	return buildAssignment(userID, held), nil
}

// ListForUser returns the user's held grants with the merged overall set.
func (s *Service) ListForUser(ctx context.Context, userID int64) (Assignment, error) {
	held, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return Assignment{}, err
	}
	return buildAssignment(userID, held), nil
}

func buildAssignment(userID int64, held []SubRoleGrant) Assignment {
	sets := make([]authz.ActionSet, 0, len(held))
	for _, g := range held {
		sets = append(sets, g.Actions)
	}
	return Assignment{
		UserID:      userID,
		SubRoles:    held,
		Permissions: authz.Merge(sets...),
	}
}
