package course

import (
	"time"

	"github.com/alexa091904/semi-project/internal/department"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	CourseName   string     `bun:"course_name,notnull,unique" json:"course_name" validate:"required,max=255"`
	DepartmentID uuid.UUID  `bun:"department_id,type:uuid,notnull" json:"department_id" validate:"required"`
	ArchivedAt   *time.Time `bun:"archived_at,nullzero" json:"archived_at"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Department *department.Department `bun:"rel:belongs-to,join:department_id=id" json:"department,omitempty"`
}
