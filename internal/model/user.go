package model

import "time"

// Role names stored in users.role_name.  Every authenticated request carries
// one of these in its token claims; route groups are gated on them.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleOwner    = "owner"
	RoleCustomer = "customer"
)

// ValidRole reports whether name is one of the four known role names.
func ValidRole(name string) bool {
	switch name {
	case RoleAdmin, RoleStaff, RoleOwner, RoleCustomer:
		return true
	}
	return false
}

// User represents an application user record as stored in the `users`
// table.  Customer accounts additionally own a row in `customers` linked
// via customers.user_id.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique login name.
//	PasswordHash – bcrypt hashed password.
//	Name         – display name.
//	Role         – role name (admin, staff, owner, customer).
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.user_id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Name         string    // users.name
	Role         string    // users.role_name
	CreatedAt    time.Time // users.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry and
// revocation.  The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the token.
//	TokenHash – SHA-256 hex digest of the token value.
//	ExpiresAt – expiration timestamp of the token.
//	RevokedAt – when the token was revoked (null if still active).
//	CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
