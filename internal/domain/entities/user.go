package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleLender   UserRole = "lender"
	UserRoleBorrower UserRole = "borrower"
	UserRoleReferrer UserRole = "referrer"
)

// UserStatus represents account status
type UserStatus string

const (
	UserStatusActive   UserStatus = "Active"
	UserStatusInactive UserStatus = "Inactive"
)

// User represents an account in any role. Borrowers additionally carry
// non-sensitive card metadata in the clear; the reversible secrets
// (CVV, ATM PIN) live in CardDetail. The LegacyCvv/LegacyAtmPin fields
// exist only on pre-migration records and are never returned to
// clients.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	Role           UserRole   `json:"role"`
	Phone          string     `json:"phone,omitempty"`
	DOB            string     `json:"dob,omitempty"`
	Address        string     `json:"address,omitempty"`
	ProfilePicture string     `json:"profilePicture,omitempty"`
	Status         UserStatus `json:"status"`

	// Non-sensitive card metadata for borrowers
	CardNumber string `json:"cardNumber,omitempty"`
	CardName   string `json:"cardName,omitempty"`
	ValidTil   string `json:"validTil,omitempty"`

	// Legacy secret columns, cleared by migration
	LegacyCvv    string `json:"-"`
	LegacyAtmPin string `json:"-"`

	// Borrower bookkeeping
	CreditScore   int       `json:"creditScore"`
	TotalBorrowed float64   `json:"totalBorrowed"`
	ActiveLoans   int       `json:"activeLoans"`
	LastPayment   null.Time `json:"lastPayment,omitempty"`
	Referrer      string    `json:"referrer,omitempty"`

	Active    bool      `json:"-"`
	DeletedAt null.Time `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// RegisterInput represents input for creating a user account
type RegisterInput struct {
	Name     string `json:"name" binding:"required,max=50"`
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=admin lender borrower referrer"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// VerifyPasswordInput carries the re-authentication password
type VerifyPasswordInput struct {
	Password string `json:"password" binding:"required"`
}

// UpdateProfileInput represents input for a user updating their own profile
type UpdateProfileInput struct {
	Name    string `json:"name" binding:"omitempty,max=50"`
	Phone   string `json:"phone"`
	DOB     string `json:"dob"`
	Address string `json:"address"`
}

// UpdateUserInput represents admin input for updating any user
type UpdateUserInput struct {
	Name     string `json:"name" binding:"omitempty,max=50"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Status   string `json:"status" binding:"omitempty,oneof=Active Inactive"`
	Password string `json:"password" binding:"omitempty,min=6"`
}
