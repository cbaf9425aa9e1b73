package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avelora/integration-marketplace/internal/model"
)

// ErrProjectNotFound is returned when a project cannot be found.
var ErrProjectNotFound = errors.New("project not found")

// ProjectRepo encapsulates all database queries for project scripts.  A
// project is owned by exactly one creator; ownership checks happen here
// so that handlers only translate sentinel errors into HTTP statuses.
type ProjectRepo struct {
	db *sql.DB
}

// NewProjectRepo constructs a ProjectRepo with the provided DB handle.
func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{db: db} }

// DB exposes the underlying pool for transaction management by handlers.
func (r *ProjectRepo) DB() *sql.DB { return r.db }

const projectColumns = "id, creator_id, title, doc_link, production_window, budget_target, genre, demo_age_start, demo_age_end, demo_gender, created_at, updated_at"

// Create inserts a new project.  On success the ID and timestamp fields
// are populated from the stored row.
func (r *ProjectRepo) Create(ctx context.Context, p *model.Project) error {
	const q = `INSERT INTO projects
		(creator_id, title, doc_link, production_window, budget_target, genre, demo_age_start, demo_age_end, demo_gender)
		VALUES (?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		p.CreatorID, p.Title, p.DocLink, p.ProductionWindow, p.BudgetTarget,
		p.Genre, p.Demographics.AgeStart, p.Demographics.AgeEnd, p.Demographics.Gender)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*p = stored
	return nil
}

// GetByID returns a single project or ErrProjectNotFound.
func (r *ProjectRepo) GetByID(ctx context.Context, id uint64) (model.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id=? LIMIT 1", id).Scan)
	if err == sql.ErrNoRows {
		return model.Project{}, ErrProjectNotFound
	}
	return p, err
}

// ListByCreator returns the creator's projects in insertion order.
func (r *ProjectRepo) ListByCreator(ctx context.Context, creatorID uint64) ([]model.Project, error) {
	return r.list(ctx, "SELECT "+projectColumns+" FROM projects WHERE creator_id=? ORDER BY id", creatorID)
}

// ListAll returns every project in insertion order.  Used by operators
// and by buyer discovery joins.
func (r *ProjectRepo) ListAll(ctx context.Context) ([]model.Project, error) {
	return r.list(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY id")
}

// Update overwrites the mutable fields of a project owned by creatorID.
// Returns ErrProjectNotFound when the row does not exist and
// ErrForbidden when it belongs to someone else.
func (r *ProjectRepo) Update(ctx context.Context, id, creatorID uint64, p model.Project) error {
	if err := r.checkOwner(ctx, id, creatorID); err != nil {
		return err
	}
	const q = `UPDATE projects SET title=?, doc_link=?, production_window=?, budget_target=?,
		genre=?, demo_age_start=?, demo_age_end=?, demo_gender=? WHERE id=?`
	_, err := r.db.ExecContext(ctx, q,
		p.Title, p.DocLink, p.ProductionWindow, p.BudgetTarget,
		p.Genre, p.Demographics.AgeStart, p.Demographics.AgeEnd, p.Demographics.Gender, id)
	return err
}

// Delete removes a project and all of its slots in one transaction.
// Deleting a script cascades to its slots so that no orphaned inventory
// survives in discovery.
func (r *ProjectRepo) Delete(ctx context.Context, id, creatorID uint64) error {
	if err := r.checkOwner(ctx, id, creatorID); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, "DELETE FROM slots WHERE project_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE id=?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// checkOwner verifies existence and ownership of a project.
func (r *ProjectRepo) checkOwner(ctx context.Context, id, creatorID uint64) error {
	var actual uint64
	err := r.db.QueryRowContext(ctx, "SELECT creator_id FROM projects WHERE id=?", id).Scan(&actual)
	if err == sql.ErrNoRows {
		return ErrProjectNotFound
	}
	if err != nil {
		return err
	}
	if actual != creatorID {
		return ErrForbidden
	}
	return nil
}

func (r *ProjectRepo) list(ctx context.Context, query string, args ...any) ([]model.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProject(scan func(...any) error) (model.Project, error) {
	var (
		p      model.Project
		budget sql.NullFloat64
	)
	err := scan(&p.ID, &p.CreatorID, &p.Title, &p.DocLink, &p.ProductionWindow, &budget,
		&p.Genre, &p.Demographics.AgeStart, &p.Demographics.AgeEnd, &p.Demographics.Gender,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Project{}, err
	}
	if budget.Valid {
		v := budget.Float64
		p.BudgetTarget = &v
	}
	return p, nil
}
