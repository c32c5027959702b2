package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Admin is an account allowed into the records system.
type Admin struct {
	bun.BaseModel `bun:"table:admins,alias:a"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Username  string    `bun:"username,notnull,unique"`
	Password  string    `bun:"password,notnull"`
	FirstName string    `bun:"first_name,notnull"`
	LastName  string    `bun:"last_name,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Session is created at login and removed at logout or after inactivity.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:ses"`

	ID         uuid.UUID `bun:"id,pk,type:uuid"`
	AdminID    uuid.UUID `bun:"admin_id,type:uuid,notnull"`
	LastSeenAt time.Time `bun:"last_seen_at,notnull"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	Admin *Admin `bun:"rel:belongs-to,join:admin_id=id"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileRequest is the request body for a profile update
type ProfileRequest struct {
	Username  string  `json:"username" validate:"required,max=100"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
}

type Profile struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func profileOf(a *Admin) *Profile {
	return &Profile{
		UserID:    a.ID,
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type checkResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}
