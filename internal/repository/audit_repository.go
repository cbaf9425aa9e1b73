package repository

import (
	"context"
	"database/sql"

	"github.com/avelora/integration-marketplace/internal/model"
)

// AuditRepo appends and reads the immutable audit trail.  Writes are
// best effort: lifecycle handlers log append failures but never fail
// the request over them.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo constructs an AuditRepo with the provided DB handle.
func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

// Append records one action.
func (r *AuditRepo) Append(ctx context.Context, e model.AuditEntry) error {
	const q = `INSERT INTO audit_log (actor_id, action, entity_type, entity_id, detail)
		VALUES (?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, q, e.ActorID, e.Action, e.EntityType, e.EntityID, e.Detail)
	return err
}

// List returns the newest entries up to limit.
func (r *AuditRepo) List(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, actor_id, action, entity_type, entity_id, detail, created_at FROM audit_log ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.AuditEntry, 0)
	for rows.Next() {
		var e model.AuditEntry
		err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID, &e.Detail, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
