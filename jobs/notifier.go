package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/procura-platform/procura/internal/grants"
)

// GrantNotifier forwards grant changes to the audit queue. It satisfies
// grants.AuditNotifier; enqueue failures are logged and dropped so the
// write path never blocks on the broker.
type GrantNotifier struct {
	client *Client
	logger *slog.Logger
}

// NewGrantNotifier constructs a GrantNotifier. The client may be nil, in
// which case notifications are discarded.
func NewGrantNotifier(client *Client, logger *slog.Logger) *GrantNotifier {
	return &GrantNotifier{client: client, logger: logger}
}

// GrantChanged enqueues an audit record for the grant write.
func (n *GrantNotifier) GrantChanged(ctx context.Context, grant grants.SubRoleGrant) {
	if n == nil || n.client == nil {
		return
	}
	payload := GrantAuditPayload{
		UserID:    grant.UserID,
		Name:      grant.Name,
		CanView:   grant.Actions.CanView,
		CanCreate: grant.Actions.CanCreate,
		CanUpdate: grant.Actions.CanUpdate,
		CanDelete: grant.Actions.CanDelete,
		ChangedAt: time.Now(),
	}
	if _, err := n.client.EnqueueGrantAudit(ctx, payload); err != nil && n.logger != nil {
		n.logger.Warn("enqueue grant audit", slog.Any("error", err))
	}
}
