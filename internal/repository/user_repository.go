package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/avelora/integration-marketplace/internal/model"
	"github.com/avelora/integration-marketplace/internal/utils"
)

// UserRepo provides access to the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = "id,email,name,password_hash,role,min_integration_fee,eligibility_rules,suitability_rules,is_active,created_at,updated_at"

// Create inserts a user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, name, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name, password_hash, role) VALUES (?,?,?,?)",
		email, name, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// ListAll returns every user ordered by creation.  Operator-only view.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateMerchantProfile overwrites the merchant settings columns.  Nil
// pointers clear the corresponding column.
func (r *UserRepo) UpdateMerchantProfile(ctx context.Context, id uint64, minFee *float64, eligibility, suitability *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET min_integration_fee=?, eligibility_rules=?, suitability_rules=? WHERE id=?",
		minFee, eligibility, suitability, id)
	return err
}

func (r *UserRepo) scanOne(ctx context.Context, query string, args ...any) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, query, args...).Scan)
}

// scanUser maps a users row onto the model, converting NULL merchant
// columns to nil pointers.
func scanUser(scan func(...any) error) (model.User, error) {
	var (
		u    model.User
		fee  sql.NullFloat64
		elig sql.NullString
		suit sql.NullString
	)
	err := scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &fee, &elig, &suit, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if fee.Valid {
		v := fee.Float64
		u.MinIntegrationFee = &v
	}
	if elig.Valid {
		v := elig.String
		u.EligibilityRules = &v
	}
	if suit.Valid {
		v := suit.String
		u.SuitabilityRules = &v
	}
	return u, nil
}
