// internal/repository/postgres_draft_repository.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appErrors "github.com/unclebandit/campaign-dashboard/internal/errors"
	"github.com/unclebandit/campaign-dashboard/internal/wizard"
)

// Schema creates the wizard session table. Applied by cmd/migrate.
const Schema = `
CREATE TABLE IF NOT EXISTS wizard_sessions (
    id          TEXT PRIMARY KEY,
    state       JSONB NOT NULL,
    expires_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_wizard_sessions_expires_at ON wizard_sessions (expires_at);
`

// Migrate applies Schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply wizard session schema: %w", err)
	}
	return nil
}

type PostgresDraftStore struct {
	DB  *sql.DB
	now func() time.Time
}

func NewPostgresDraftStore(db *sql.DB) *PostgresDraftStore {
	return &PostgresDraftStore{DB: db, now: time.Now}
}

func (r *PostgresDraftStore) Get(ctx context.Context, id string) (*wizard.State, error) {
	query := `SELECT state FROM wizard_sessions WHERE id=$1 AND expires_at > $2`
	var raw []byte
	err := r.DB.QueryRowContext(ctx, query, id, r.now()).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrWizardNotFound
		}
		return nil, fmt.Errorf("failed to get wizard session: %w", err)
	}
	var s wizard.State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode wizard session: %w", err)
	}
	return &s, nil
}

func (r *PostgresDraftStore) Save(ctx context.Context, s wizard.State, ttl time.Duration) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode wizard session: %w", err)
	}
	now := r.now()
	query := `
        INSERT INTO wizard_sessions (id, state, expires_at, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE
        SET state=EXCLUDED.state, expires_at=EXCLUDED.expires_at, updated_at=EXCLUDED.updated_at
    `
	if _, err := r.DB.ExecContext(ctx, query, s.ID, raw, now.Add(ttl), now); err != nil {
		return fmt.Errorf("failed to save wizard session: %w", err)
	}
	return nil
}

func (r *PostgresDraftStore) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM wizard_sessions WHERE id=$1`, id)
	return err
}

func (r *PostgresDraftStore) Purge(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM wizard_sessions WHERE expires_at <= $1`, r.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge wizard sessions: %w", err)
	}
	return res.RowsAffected()
}
