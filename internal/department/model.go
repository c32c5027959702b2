package department

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Department struct {
	bun.BaseModel `bun:"table:departments,alias:d"`

	ID             uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	DepartmentName string     `bun:"department_name,notnull" json:"department_name" validate:"required,max=255"`
	DepartmentHead string     `bun:"department_head,notnull" json:"department_head" validate:"required,max=255"`
	ArchivedAt     *time.Time `bun:"archived_at,nullzero" json:"archived_at"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
