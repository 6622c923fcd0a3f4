package db

import (
	"context"

	"github.com/studiokit/backend/internal/model"
)

func (db *Postgres) ListSettings(ctx context.Context) ([]model.Setting, error) {
	query := `
		SELECT key, value, updated_at
		FROM settings
		ORDER BY key ASC
	`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := []model.Setting{}
	for rows.Next() {
		var s model.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (db *Postgres) UpsertSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	_, err := db.Pool.Exec(ctx, query, key, value)
	return err
}

func (db *Postgres) GetSetting(ctx context.Context, key string) (*model.Setting, error) {
	query := `
		SELECT key, value, updated_at
		FROM settings
		WHERE key = $1
	`
	var s model.Setting
	if err := db.Pool.QueryRow(ctx, query, key).Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
