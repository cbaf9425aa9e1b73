package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/avelora/integration-marketplace/internal/model"
)

// ErrSKUNotFound is returned when a SKU cannot be found.
var ErrSKUNotFound = errors.New("sku not found")

// SKURepo encapsulates all database queries for merchant SKUs.  Tags
// are stored as a single comma separated column and split on read.
type SKURepo struct {
	db *sql.DB
}

// NewSKURepo constructs a SKURepo with the provided DB handle.
func NewSKURepo(db *sql.DB) *SKURepo { return &SKURepo{db: db} }

const skuColumns = "id, merchant_id, title, price, margin, tags, image_url, created_at, updated_at"

// Create inserts a new SKU for the merchant.
func (r *SKURepo) Create(ctx context.Context, s *model.SKU) error {
	const q = `INSERT INTO skus (merchant_id, title, price, margin, tags, image_url)
		VALUES (?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		s.MerchantID, s.Title, s.Price, s.Margin, joinTags(s.Tags), s.ImageURL)
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

// GetByID returns a single SKU or ErrSKUNotFound.
func (r *SKURepo) GetByID(ctx context.Context, id uint64) (model.SKU, error) {
	s, err := scanSKU(r.db.QueryRowContext(ctx,
		"SELECT "+skuColumns+" FROM skus WHERE id=? LIMIT 1", id).Scan)
	if err == sql.ErrNoRows {
		return model.SKU{}, ErrSKUNotFound
	}
	return s, err
}

// ListByMerchant returns the merchant's SKUs in insertion order.
func (r *SKURepo) ListByMerchant(ctx context.Context, merchantID uint64) ([]model.SKU, error) {
	return r.list(ctx, "SELECT "+skuColumns+" FROM skus WHERE merchant_id=? ORDER BY id", merchantID)
}

// ListAll returns every SKU in insertion order.
func (r *SKURepo) ListAll(ctx context.Context) ([]model.SKU, error) {
	return r.list(ctx, "SELECT "+skuColumns+" FROM skus ORDER BY id")
}

// Update overwrites the mutable fields of a SKU owned by merchantID.
func (r *SKURepo) Update(ctx context.Context, id, merchantID uint64, s model.SKU) error {
	if err := r.checkOwner(ctx, id, merchantID); err != nil {
		return err
	}
	const q = `UPDATE skus SET title=?, price=?, margin=?, tags=? WHERE id=?`
	_, err := r.db.ExecContext(ctx, q, s.Title, s.Price, s.Margin, joinTags(s.Tags), id)
	return err
}

// SetImageURL records the public URL of an uploaded product image.
func (r *SKURepo) SetImageURL(ctx context.Context, id, merchantID uint64, url string) error {
	if err := r.checkOwner(ctx, id, merchantID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, "UPDATE skus SET image_url=? WHERE id=?", url, id)
	return err
}

// Delete removes a SKU owned by merchantID.
func (r *SKURepo) Delete(ctx context.Context, id, merchantID uint64) error {
	if err := r.checkOwner(ctx, id, merchantID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, "DELETE FROM skus WHERE id=?", id)
	return err
}

func (r *SKURepo) checkOwner(ctx context.Context, id, merchantID uint64) error {
	var actual uint64
	err := r.db.QueryRowContext(ctx, "SELECT merchant_id FROM skus WHERE id=?", id).Scan(&actual)
	if err == sql.ErrNoRows {
		return ErrSKUNotFound
	}
	if err != nil {
		return err
	}
	if actual != merchantID {
		return ErrForbidden
	}
	return nil
}

func (r *SKURepo) list(ctx context.Context, query string, args ...any) ([]model.SKU, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.SKU, 0)
	for rows.Next() {
		s, err := scanSKU(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSKU(scan func(...any) error) (model.SKU, error) {
	var (
		s    model.SKU
		tags string
		img  sql.NullString
	)
	err := scan(&s.ID, &s.MerchantID, &s.Title, &s.Price, &s.Margin, &tags, &img,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.SKU{}, err
	}
	s.Tags = splitTags(tags)
	if img.Valid {
		v := img.String
		s.ImageURL = &v
	}
	return s, nil
}

func joinTags(tags []string) string {
	trimmed := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			trimmed = append(trimmed, t)
		}
	}
	return strings.Join(trimmed, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
