package academicyear

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AcademicYear struct {
	bun.BaseModel `bun:"table:academic_years,alias:ay"`

	ID         uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	StartYear  string     `bun:"start_year,notnull" json:"start_year" validate:"required,year4"`
	EndYear    string     `bun:"end_year,notnull" json:"end_year" validate:"required,year4"`
	ArchivedAt *time.Time `bun:"archived_at,nullzero" json:"archived_at"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Label renders the year range the way it is shown in listings.
func (a AcademicYear) Label() string {
	return a.StartYear + " - " + a.EndYear
}
