// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"grant-portal/internal/models"
)

// Schema creates the applications table. seq orders rows by insertion so the
// newest application is read first.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS grant_applications (
		seq          BIGSERIAL PRIMARY KEY,
		id           TEXT NOT NULL UNIQUE,
		project_name TEXT NOT NULL,
		amount       NUMERIC(14, 2) NOT NULL CHECK (amount > 0),
		currency     TEXT NOT NULL,
		date_label   TEXT NOT NULL,
		status       TEXT NOT NULL CHECK (status IN ('Pending', 'Approved', 'Rejected')),
		submitted_at TIMESTAMPTZ NOT NULL
	)`,
}

const (
	insertApplicationQuery = `INSERT INTO grant_applications
		(id, project_name, amount, currency, date_label, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`

	listApplicationsQuery = `SELECT id, project_name, amount, currency, date_label, status, submitted_at
		FROM grant_applications
		ORDER BY seq DESC`

	statsQuery = `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'Pending'),
		COUNT(*) FILTER (WHERE status = 'Approved'),
		COUNT(*) FILTER (WHERE status = 'Rejected')
		FROM grant_applications`
)

// PostgresStore keeps applications in the grant_applications table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, app models.Application) (string, error) {
	res, err := s.db.ExecContext(ctx, insertApplicationQuery,
		app.ID, app.ProjectName, app.Amount, app.Currency, app.Date, string(app.Status), app.SubmittedAt)
	if err != nil {
		return "", fmt.Errorf("insert application: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("insert application: %w", err)
	}
	if n == 0 {
		return "", ErrDuplicateID
	}
	return app.ID, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Application, error) {
	rows, err := s.db.QueryContext(ctx, listApplicationsQuery)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		var (
			app    models.Application
			status string
		)
		if err := rows.Scan(&app.ID, &app.ProjectName, &app.Amount, &app.Currency, &app.Date, &status, &app.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		app.Status = models.ApplicationStatus(status)
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

func (s *PostgresStore) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := s.db.QueryRowContext(ctx, statsQuery).
		Scan(&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected)
	if err != nil {
		return models.Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return stats, nil
}

func (s *PostgresStore) Name() string { return "postgres" }
