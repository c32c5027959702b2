package faculty

import (
	"time"

	"github.com/alexa091904/semi-project/internal/civil"
	"github.com/alexa091904/semi-project/internal/department"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

type Faculty struct {
	bun.BaseModel `bun:"table:faculty,alias:f"`

	ID           uuid.UUID   `bun:"id,pk,type:uuid" json:"id"`
	FullName     string      `bun:"full_name,notnull" json:"full_name" validate:"required,max=255"`
	EmailAddress string      `bun:"email_address,notnull,unique" json:"email_address" validate:"required,email,max=255"`
	PhoneNumber  string      `bun:"phone_number,notnull" json:"phone_number" validate:"required,max=20"`
	Sex          string      `bun:"sex,notnull" json:"sex" validate:"required,oneof=Male Female"`
	DateOfBirth  *civil.Date `bun:"date_of_birth,type:date,notnull" json:"date_of_birth" validate:"required"`
	Address      string      `bun:"address,notnull" json:"address" validate:"required"`
	DepartmentID uuid.UUID   `bun:"department_id,type:uuid,notnull" json:"department_id" validate:"required"`
	Position     string      `bun:"position,notnull" json:"position" validate:"required,max=255"`
	Status       string      `bun:"status,notnull" json:"status" validate:"required,oneof=Active Inactive"`
	HiredDate    *civil.Date `bun:"hired_date,type:date,notnull" json:"hired_date"`
	ArchivedAt   *time.Time  `bun:"archived_at,nullzero" json:"archived_at"`
	CreatedAt    time.Time   `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time   `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Department *department.Department `bun:"rel:belongs-to,join:department_id=id" json:"department,omitempty"`
}

// ListFilter selects live faculty. Zero fields do not restrict.
type ListFilter struct {
	Search       string
	DepartmentID *uuid.UUID
	Status       string
}
