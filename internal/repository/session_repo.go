package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

var sessionColumns = []string{
	"id", "state", "source_format", "source_name",
	"width", "height", "original_width", "original_height",
	"created_at", "updated_at",
}

// CreateSession inserts a fresh session record.
func (r *Repository) CreateSession(rec *SessionRecord) error {
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.State == "" {
		rec.State = "empty"
	}

	query := r.Builder.Insert("sessions").
		Columns(sessionColumns...).
		Values(rec.ID, rec.State, rec.SourceFormat, rec.SourceName,
			rec.Width, rec.Height, rec.OriginalWidth, rec.OriginalHeight,
			now.Unix(), now.Unix())

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}
	if _, err := r.DB.Exec(sqlQuery, args...); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession fetches one session record by id.
func (r *Repository) GetSession(id string) (*SessionRecord, error) {
	query := r.Builder.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"id": id})

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rec, err := scanSession(r.DB.QueryRow(sqlQuery, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	return rec, err
}

// UpdateSession writes back the mutable parts of a session record.
func (r *Repository) UpdateSession(rec *SessionRecord) error {
	rec.UpdatedAt = time.Now()

	query := r.Builder.Update("sessions").
		Set("state", rec.State).
		Set("source_format", rec.SourceFormat).
		Set("source_name", rec.SourceName).
		Set("width", rec.Width).
		Set("height", rec.Height).
		Set("original_width", rec.OriginalWidth).
		Set("original_height", rec.OriginalHeight).
		Set("updated_at", rec.UpdatedAt.Unix()).
		Where(squirrel.Eq{"id": rec.ID})

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.DB.Exec(sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteSession removes a session record.
func (r *Repository) DeleteSession(id string) error {
	query := r.Builder.Delete("sessions").Where(squirrel.Eq{"id": id})

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	result, err := r.DB.Exec(sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListSessions returns session records ordered by most recent activity.
func (r *Repository) ListSessions(limit int) ([]SessionRecord, error) {
	query := r.Builder.Select(sessionColumns...).
		From("sessions").
		OrderBy("updated_at DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.DB.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// DeleteSessionsIdleSince removes records that have not been touched
// since the given cutoff and returns their ids, so the caller can clean
// up blobs on disk.
func (r *Repository) DeleteSessionsIdleSince(cutoff time.Time) ([]string, error) {
	query := r.Builder.Select("id").
		From("sessions").
		Where(squirrel.Lt{"updated_at": cutoff.Unix()})

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.DB.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query idle sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	deleteQuery := r.Builder.Delete("sessions").Where(squirrel.Eq{"id": ids})
	sqlDelete, argsDelete, err := deleteQuery.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build delete query: %w", err)
	}
	if _, err := r.DB.Exec(sqlDelete, argsDelete...); err != nil {
		return nil, fmt.Errorf("failed to delete idle sessions: %w", err)
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*SessionRecord, error) {
	var rec SessionRecord
	var created, updated int64
	err := row.Scan(&rec.ID, &rec.State, &rec.SourceFormat, &rec.SourceName,
		&rec.Width, &rec.Height, &rec.OriginalWidth, &rec.OriginalHeight,
		&created, &updated)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(created, 0)
	rec.UpdatedAt = time.Unix(updated, 0)
	return &rec, nil
}
