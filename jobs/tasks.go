package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/procura-platform/procura/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSessionPrune removes expired session rows.
	TaskTypeSessionPrune = "sessions:prune"
	// TaskTypeGrantAudit records a sub-role grant change in the audit trail.
	TaskTypeGrantAudit = "grants:audit"
)

// SessionPrunePayload bounds the prune to sessions expired before a cutoff.
type SessionPrunePayload struct {
	Before time.Time `json:"before"`
}

// NewSessionPruneTask constructs a prune task. A zero cutoff means "now at
// execution time".
func NewSessionPruneTask(before time.Time) (*asynq.Task, error) {
	data, err := json.Marshal(SessionPrunePayload{Before: before})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSessionPrune, data, asynq.Queue(QueueDefault)), nil
}

// NewSessionPruneHandler returns the handler deleting expired sessions.
func NewSessionPruneHandler(pool *pgxpool.Pool, logger *slog.Logger) asynq.HandlerFunc {
	metrics := jobmetrics.NewMetrics(nil)
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SessionPrunePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		tracker := metrics.Track(TaskTypeSessionPrune)
		cutoff := payload.Before
		if cutoff.IsZero() {
			cutoff = time.Now()
		}
		if pool == nil {
			return tracker.End(nil)
		}
		tag, err := pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, cutoff)
		if err != nil {
			if logger != nil {
				logger.Error("prune sessions", slog.Any("error", err))
			}
			return tracker.End(err)
		}
		if logger != nil {
			logger.Info("pruned sessions",
				slog.String("job", TaskTypeSessionPrune),
				slog.Int64("removed", tag.RowsAffected()))
		}
		return tracker.End(nil)
	}
}

// GrantAuditPayload captures a single grant write for the audit trail.
type GrantAuditPayload struct {
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	CanView   bool      `json:"canView"`
	CanCreate bool      `json:"canCreate"`
	CanUpdate bool      `json:"canUpdate"`
	CanDelete bool      `json:"canDelete"`
	ChangedAt time.Time `json:"changedAt"`
}

// NewGrantAuditTask constructs an audit task.
func NewGrantAuditTask(payload GrantAuditPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeGrantAudit, data, asynq.Queue(QueueDefault)), nil
}

// NewGrantAuditHandler returns the handler persisting grant changes.
func NewGrantAuditHandler(pool *pgxpool.Pool, logger *slog.Logger) asynq.HandlerFunc {
	metrics := jobmetrics.NewMetrics(nil)
	return func(ctx context.Context, t *asynq.Task) error {
		var payload GrantAuditPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		tracker := metrics.Track(TaskTypeGrantAudit)
		if pool == nil {
			return tracker.End(nil)
		}
		const query = `INSERT INTO grant_audit (user_id, sub_role, can_view, can_create, can_update, can_delete, changed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		changedAt := payload.ChangedAt
		if changedAt.IsZero() {
			changedAt = time.Now()
		}
		if _, err := pool.Exec(ctx, query,
			payload.UserID, payload.Name,
			payload.CanView, payload.CanCreate, payload.CanUpdate, payload.CanDelete,
			changedAt); err != nil {
			if logger != nil {
				logger.Error("record grant audit", slog.Any("error", err))
			}
			return tracker.End(err)
		}
		return tracker.End(nil)
	}
}
