package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alexa091904/semi-project/internal/metrics"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrAdminNotFound   = errors.New("admin not found")
	ErrSessionNotFound = errors.New("session not found")
)

type Repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) *Repository {
	return &Repository{
		db:      db,
		metrics: m,
	}
}

func (r *Repository) CreateAdmin(ctx context.Context, admin *Admin) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(admin).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "admins", time.Since(start), err)

	return err
}

func (r *Repository) GetAdminByUsername(ctx context.Context, username string) (*Admin, error) {
	start := time.Now()
	admin := new(Admin)
	err := r.db.NewSelect().Model(admin).Where("a.username = ?", username).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "admins", time.Since(start), err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	return admin, err
}

func (r *Repository) GetAdminByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	start := time.Now()
	admin := new(Admin)
	err := r.db.NewSelect().Model(admin).Where("a.id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "admins", time.Since(start), err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	return admin, err
}

func (r *Repository) UpdateProfile(ctx context.Context, admin *Admin) error {
	start := time.Now()
	admin.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(admin).
		Column("username", "first_name", "last_name", "updated_at").
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "admins", time.Since(start), err)

	return err
}

func (r *Repository) CreateSession(ctx context.Context, session *Session) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(session).Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "sessions", time.Since(start), err)

	return err
}

// GetSession loads the session together with its admin.
func (r *Repository) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	start := time.Now()
	session := new(Session)
	err := r.db.NewSelect().
		Model(session).
		Relation("Admin").
		Where("ses.id = ?", id).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "sessions", time.Since(start), err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	return session, err
}

func (r *Repository) TouchSession(ctx context.Context, id uuid.UUID, at time.Time) error {
	start := time.Now()
	_, err := r.db.NewUpdate().
		Model((*Session)(nil)).
		Set("last_seen_at = ?", at).
		Where("id = ?", id).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "sessions", time.Since(start), err)

	return err
}

func (r *Repository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	_, err := r.db.NewDelete().
		Model((*Session)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "sessions", time.Since(start), err)

	return err
}
