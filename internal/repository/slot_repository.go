package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avelora/integration-marketplace/internal/discovery"
	"github.com/avelora/integration-marketplace/internal/model"
)

// ErrSlotNotFound is returned when a slot cannot be found.
var ErrSlotNotFound = errors.New("slot not found")

// SlotRepo encapsulates all database queries for placement slots.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo constructs a SlotRepo with the provided DB handle.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// DB exposes the underlying pool for transaction management by handlers.
func (r *SlotRepo) DB() *sql.DB { return r.db }

const slotColumns = "id, project_id, scene_ref, description, constraints, pricing_floor, modality, status, visibility, created_at, updated_at"

// Create inserts a new slot.  Ownership of the parent project must be
// verified by the caller before insert; see CreatorOf.
func (r *SlotRepo) Create(ctx context.Context, s *model.Slot) error {
	const q = `INSERT INTO slots
		(project_id, scene_ref, description, constraints, pricing_floor, modality, status, visibility)
		VALUES (?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		s.ProjectID, s.SceneRef, s.Description, s.Constraints, s.PricingFloor, s.Modality, s.Status, s.Visibility)
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
	*s = stored
	return nil
}

// GetByID returns a single slot or ErrSlotNotFound.
func (r *SlotRepo) GetByID(ctx context.Context, id uint64) (model.Slot, error) {
	s, err := scanSlot(r.db.QueryRowContext(ctx,
		"SELECT "+slotColumns+" FROM slots WHERE id=? LIMIT 1", id).Scan)
	if err == sql.ErrNoRows {
		return model.Slot{}, ErrSlotNotFound
	}
	return s, err
}

// CreatorOf resolves the creator who owns the slot's parent project.
// Every ownership and party check on the sell side goes through this.
func (r *SlotRepo) CreatorOf(ctx context.Context, slotID uint64) (uint64, error) {
	var creatorID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT p.creator_id FROM slots s JOIN projects p ON p.id = s.project_id WHERE s.id=?`,
		slotID).Scan(&creatorID)
	if err == sql.ErrNoRows {
		return 0, ErrSlotNotFound
	}
	return creatorID, err
}

// ListByProject returns the slots of one project in insertion order.
func (r *SlotRepo) ListByProject(ctx context.Context, projectID uint64) ([]model.Slot, error) {
	return r.list(ctx, "SELECT "+slotColumns+" FROM slots WHERE project_id=? ORDER BY id", projectID)
}

// ListAll returns every slot in insertion order.
func (r *SlotRepo) ListAll(ctx context.Context) ([]model.Slot, error) {
	return r.list(ctx, "SELECT "+slotColumns+" FROM slots ORDER BY id")
}

// ListDiscoverable returns slot/project pairs eligible for buyer
// discovery: available slots with public visibility, joined with their
// parent project for demographic filtering.
func (r *SlotRepo) ListDiscoverable(ctx context.Context) ([]discovery.Listing, error) {
	const q = `SELECT s.id, s.project_id, s.scene_ref, s.description, s.constraints, s.pricing_floor,
			s.modality, s.status, s.visibility, s.created_at, s.updated_at,
			p.id, p.creator_id, p.title, p.doc_link, p.production_window, p.budget_target,
			p.genre, p.demo_age_start, p.demo_age_end, p.demo_gender, p.created_at, p.updated_at
		FROM slots s
		JOIN projects p ON p.id = s.project_id
		WHERE s.status = ? AND s.visibility = ?
		ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, q, model.SlotAvailable, model.VisibilityPublic)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]discovery.Listing, 0)
	for rows.Next() {
		var (
			l      discovery.Listing
			budget sql.NullFloat64
		)
		err := rows.Scan(
			&l.Slot.ID, &l.Slot.ProjectID, &l.Slot.SceneRef, &l.Slot.Description, &l.Slot.Constraints, &l.Slot.PricingFloor,
			&l.Slot.Modality, &l.Slot.Status, &l.Slot.Visibility, &l.Slot.CreatedAt, &l.Slot.UpdatedAt,
			&l.Project.ID, &l.Project.CreatorID, &l.Project.Title, &l.Project.DocLink,
			&l.Project.ProductionWindow, &budget, &l.Project.Genre,
			&l.Project.Demographics.AgeStart, &l.Project.Demographics.AgeEnd, &l.Project.Demographics.Gender,
			&l.Project.CreatedAt, &l.Project.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if budget.Valid {
			v := budget.Float64
			l.Project.BudgetTarget = &v
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a slot owned by creatorID.
func (r *SlotRepo) Update(ctx context.Context, id, creatorID uint64, s model.Slot) error {
	if err := r.checkOwner(ctx, id, creatorID); err != nil {
		return err
	}
	const q = `UPDATE slots SET scene_ref=?, description=?, constraints=?, pricing_floor=?, modality=?,
		status=?, visibility=? WHERE id=?`
	_, err := r.db.ExecContext(ctx, q,
		s.SceneRef, s.Description, s.Constraints, s.PricingFloor, s.Modality, s.Status, s.Visibility, id)
	return err
}

// Delete removes a slot owned by creatorID.
func (r *SlotRepo) Delete(ctx context.Context, id, creatorID uint64) error {
	if err := r.checkOwner(ctx, id, creatorID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, "DELETE FROM slots WHERE id=?", id)
	return err
}

// UpdateStatusTx transitions a slot's status inside tx, guarded by the
// expected current status.  Returns ErrConflict when another writer got
// there first.
func (r *SlotRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE slots SET status=? WHERE id=? AND status=?", to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

func (r *SlotRepo) checkOwner(ctx context.Context, id, creatorID uint64) error {
	actual, err := r.CreatorOf(ctx, id)
	if err != nil {
		return err
	}
	if actual != creatorID {
		return ErrForbidden
	}
	return nil
}

func (r *SlotRepo) list(ctx context.Context, query string, args ...any) ([]model.Slot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Slot, 0)
	for rows.Next() {
		s, err := scanSlot(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSlot(scan func(...any) error) (model.Slot, error) {
	var s model.Slot
	err := scan(&s.ID, &s.ProjectID, &s.SceneRef, &s.Description, &s.Constraints, &s.PricingFloor,
		&s.Modality, &s.Status, &s.Visibility, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
