package profile

import (
	"context"
	"database/sql"
)

// PostgresStore implements Store with PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed profile store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Get(ctx context.Context, userID string) (Profile, error) {
	prof := Profile{UserID: userID}
	err := p.db.QueryRowContext(ctx, `
		SELECT average_score, total_scored, updated_at
		FROM risk_profiles WHERE user_id = $1
	`, userID).Scan(&prof.AverageScore, &prof.TotalScored, &prof.UpdatedAt)

	if err == sql.ErrNoRows {
		return Profile{UserID: userID}, nil
	}
	if err != nil {
		return Profile{}, err
	}
	return prof, nil
}

func (p *PostgresStore) Upsert(ctx context.Context, prof Profile) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO risk_profiles (user_id, average_score, total_scored, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			average_score = EXCLUDED.average_score,
			total_scored  = EXCLUDED.total_scored,
			updated_at    = EXCLUDED.updated_at
	`, prof.UserID, prof.AverageScore, prof.TotalScored, prof.UpdatedAt)
	return err
}

func (p *PostgresStore) List(ctx context.Context) ([]Profile, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT user_id, average_score, total_scored, updated_at
		FROM risk_profiles
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var prof Profile
		if err := rows.Scan(&prof.UserID, &prof.AverageScore, &prof.TotalScored, &prof.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, prof)
	}
	return out, rows.Err()
}
