package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq" // Untuk pq.Array
	"github.com/ridloal/blood-portal/internal/activity/domain"
	"github.com/ridloal/blood-portal/internal/platform/logger"
)

var (
	ErrActivityTableMissing = errors.New("portal_activity table does not exist")
	ErrActivityConflict     = errors.New("activity entry already recorded")
)

const schema = `CREATE TABLE IF NOT EXISTS portal_activity (
	id             UUID PRIMARY KEY,
	institution_id TEXT NOT NULL,
	user_id        TEXT,
	action         TEXT NOT NULL,
	resource_type  TEXT NOT NULL,
	resource_id    TEXT NOT NULL,
	success        BOOLEAN NOT NULL,
	message        TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_portal_activity_institution ON portal_activity (institution_id, created_at DESC);`

type ActivityRepository interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, entry *domain.Entry) error
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Entry, error)
}

// DBTX adalah interface yang bisa berupa *sql.DB atau *sql.Tx
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
}

type postgresActivityRepository struct {
	db DBTX
}

func NewPostgresActivityRepository(db DBTX) ActivityRepository {
	return &postgresActivityRepository{db: db}
}

func (r *postgresActivityRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		logger.Error("EnsureSchema: failed to create portal_activity", err, nil)
		return err
	}
	return nil
}

func (r *postgresActivityRepository) Insert(ctx context.Context, entry *domain.Entry) error {
	query := `INSERT INTO portal_activity (id, institution_id, user_id, action, resource_type, resource_id, success, message, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var userID sql.NullString
	if entry.UserID != "" {
		userID = sql.NullString{String: entry.UserID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.InstitutionID, userID, string(entry.Action),
		entry.ResourceType, entry.ResourceID, entry.Success, entry.Message, entry.CreatedAt,
	)
	if err != nil {
		return mapPgError("Insert", err)
	}
	return nil
}

func (r *postgresActivityRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Entry, error) {
	query := `SELECT id, institution_id, user_id, action, resource_type, resource_id, success, message, created_at
              FROM portal_activity WHERE institution_id = $1`
	args := []interface{}{filter.InstitutionID}

	if len(filter.Actions) > 0 {
		actions := make([]string, len(filter.Actions))
		for i, a := range filter.Actions {
			actions[i] = string(a)
		}
		query += ` AND action = ANY($2)`
		args = append(args, pq.Array(actions))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapPgError("List", err)
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		var e domain.Entry
		var userID sql.NullString
		var action string
		if err := rows.Scan(&e.ID, &e.InstitutionID, &userID, &action, &e.ResourceType, &e.ResourceID, &e.Success, &e.Message, &e.CreatedAt); err != nil {
			logger.Error("List: failed to scan activity row", err, nil)
			return nil, err
		}
		e.Action = domain.Action(action)
		if userID.Valid {
			e.UserID = userID.String
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		logger.Error("List: rows iteration failed", err, nil)
		return nil, err
	}
	return entries, nil
}

// mapPgError: 42P01 undefined_table, 23505 unique_violation.
func mapPgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01":
			logger.Error(op+": activity table missing", err, nil)
			return ErrActivityTableMissing
		case "23505":
			return ErrActivityConflict
		}
	}
	logger.Error(op+": query failed", err, nil)
	return err
}
