package archive

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns a search term into an ILIKE pattern matching any
// value that contains the term literally.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// SetArchivedAt stamps archived_at on the live row with the given id. It
// reports false when the row was already archived; its original instant is
// kept.
func SetArchivedAt(ctx context.Context, db bun.IDB, model interface{}, id uuid.UUID, at time.Time) (bool, error) {
	res, err := db.NewUpdate().
		Model(model).
		Set("archived_at = ?", at).
		Set("updated_at = ?", at).
		Where("id = ?", id).
		Where("archived_at IS NULL").
		Exec(ctx)
	return checkAffected(ctx, db, model, id, res, err)
}

// ClearArchivedAt returns the archived row with the given id to the live set.
// It reports false when the row was already live.
func ClearArchivedAt(ctx context.Context, db bun.IDB, model interface{}, id uuid.UUID) (bool, error) {
	res, err := db.NewUpdate().
		Model(model).
		Set("archived_at = NULL").
		Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Where("archived_at IS NOT NULL").
		Exec(ctx)
	return checkAffected(ctx, db, model, id, res, err)
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

// checkAffected tells an unchanged row apart from a missing one.
func checkAffected(ctx context.Context, db bun.IDB, model interface{}, id uuid.UUID, res rowsAffecter, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	exists, err := db.NewSelect().Model(model).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrNotFound
	}
	return false, nil
}
