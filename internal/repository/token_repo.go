package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

// StoreRefreshToken persists the hash of an issued refresh token.
func (r *Repository) StoreRefreshToken(tokenHash string, expiry time.Time) error {
	query := r.Builder.Insert("refresh_tokens").
		Columns("token_hash", "expires_at").
		Values(tokenHash, expiry.Unix())

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}
	if _, err := r.DB.Exec(sqlQuery, args...); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// ValidateRefreshToken checks that a token hash is known and unexpired.
// Expired rows are removed on sight.
func (r *Repository) ValidateRefreshToken(tokenHash string) error {
	query := r.Builder.Select("expires_at").
		From("refresh_tokens").
		Where(squirrel.Eq{"token_hash": tokenHash})

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build select query: %w", err)
	}

	var expiresAt int64
	err = r.DB.QueryRow(sqlQuery, args...).Scan(&expiresAt)
	if err == sql.ErrNoRows {
		return ErrTokenNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if time.Now().After(time.Unix(expiresAt, 0)) {
		_ = r.DeleteRefreshToken(tokenHash)
		return ErrTokenNotFound
	}
	return nil
}

// DeleteRefreshToken revokes a single refresh token.
func (r *Repository) DeleteRefreshToken(tokenHash string) error {
	query := r.Builder.Delete("refresh_tokens").
		Where(squirrel.Eq{"token_hash": tokenHash})

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}
	if _, err := r.DB.Exec(sqlQuery, args...); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// DeleteExpiredRefreshTokens sweeps out tokens past their expiry.
func (r *Repository) DeleteExpiredRefreshTokens() error {
	query := r.Builder.Delete("refresh_tokens").
		Where(squirrel.Lt{"expires_at": time.Now().Unix()})

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}
	if _, err := r.DB.Exec(sqlQuery, args...); err != nil {
		return fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}
	return nil
}
