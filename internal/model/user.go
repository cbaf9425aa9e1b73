package model

import "time"

// Role names stored in users.role and embedded in JWT claims.  Creators
// own project scripts and their integration slots, advertisers and
// merchants ("buyers") place bids against slots, and operators hold a
// read-only marketplace-wide view plus audit and evidence exports.
const (
	RoleCreator    = "CREATOR"
	RoleAdvertiser = "ADVERTISER"
	RoleMerchant   = "MERCHANT"
	RoleOperator   = "OPERATOR"
)

// IsBuyerRole reports whether the role may place bids.
func IsBuyerRole(role string) bool {
	return role == RoleAdvertiser || role == RoleMerchant
}

// User represents an application user record as stored in the `users`
// table.  The merchant settings columns are only meaningful for MERCHANT
// rows and are exposed as pointers so that nil means unset.  JSON tags
// define the single canonical camelCase wire representation; request
// payloads that arrive in snake_case are normalized at the handler
// boundary, never here.
//
// Fields:
//  ID                – primary key identifier of the user.
//  Email             – unique email address.
//  Name              – display name.
//  PasswordHash      – bcrypt hashed password (never serialized).
//  Role              – one of the Role* constants.
//  MinIntegrationFee – merchant floor for Fixed-price bids (nullable).
//  EligibilityRules  – merchant free-text eligibility rules (nullable).
//  SuitabilityRules  – merchant free-text suitability rules (nullable).
//  IsActive          – whether the account is active.
//  CreatedAt         – timestamp of creation.
//  UpdatedAt         – timestamp of last update.
type User struct {
	ID                uint64    `json:"id"`                          // users.id
	Email             string    `json:"email"`                       // users.email
	Name              string    `json:"name"`                        // users.name
	PasswordHash      string    `json:"-"`                           // users.password_hash
	Role              string    `json:"role"`                        // users.role
	MinIntegrationFee *float64  `json:"minIntegrationFee,omitempty"` // users.min_integration_fee (nullable)
	EligibilityRules  *string   `json:"eligibilityRules,omitempty"`  // users.eligibility_rules (nullable)
	SuitabilityRules  *string   `json:"suitabilityRules,omitempty"`  // users.suitability_rules (nullable)
	IsActive          bool      `json:"isActive"`                    // users.is_active
	CreatedAt         time.Time `json:"createdDate"`                 // users.created_at
	UpdatedAt         time.Time `json:"lastModifiedDate"`            // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry and
// revocation.  The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
