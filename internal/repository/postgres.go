package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/forgo/mergington/api/internal/database"
	"github.com/forgo/mergington/api/internal/model"
)

// postgresSchema is applied by Migrate. The composite primary key on
// activity_participants is what makes duplicate signups impossible; position
// preserves signup order.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS activities (
	name             TEXT PRIMARY KEY,
	description      TEXT NOT NULL,
	schedule         TEXT NOT NULL,
	max_participants INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS activity_participants (
	activity_name TEXT NOT NULL REFERENCES activities(name) ON DELETE CASCADE,
	email         TEXT NOT NULL,
	position      BIGSERIAL,
	PRIMARY KEY (activity_name, email)
);
`

const selectActivitiesSQL = `SELECT a.name, a.description, a.schedule, a.max_participants, p.email
FROM activities a
LEFT JOIN activity_participants p ON p.activity_name = a.name`

// PostgresActivityRepository stores activities in PostgreSQL via lib/pq
type PostgresActivityRepository struct {
	db *sql.DB
}

// OpenPostgres opens a lib/pq connection pool for dsn
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrConnection, err)
	}
	return db, nil
}

// NewPostgresActivityRepository creates a new PostgreSQL-backed repository
func NewPostgresActivityRepository(db *sql.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

// Migrate creates the tables if they don't exist
func (r *PostgresActivityRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("%w: migrate: %v", database.ErrQuery, err)
	}
	return nil
}

// List retrieves every activity ordered by name
func (r *PostgresActivityRepository) List(ctx context.Context) ([]*model.Activity, error) {
	rows, err := r.db.QueryContext(ctx, selectActivitiesSQL+` ORDER BY a.name, p.position`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrQuery, err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// GetByName retrieves an activity by name, or nil if absent
func (r *PostgresActivityRepository) GetByName(ctx context.Context, name string) (*model.Activity, error) {
	rows, err := r.db.QueryContext(ctx, selectActivitiesSQL+` WHERE a.name = $1 ORDER BY p.position`, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrQuery, err)
	}
	defer rows.Close()

	activities, err := scanActivities(rows)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, nil
	}
	return activities[0], nil
}

// AddParticipant inserts the roster row; the primary key rejects duplicates
func (r *PostgresActivityRepository) AddParticipant(ctx context.Context, name, email string) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO activity_participants (activity_name, email)
SELECT name, $2 FROM activities WHERE name = $1
ON CONFLICT (activity_name, email) DO NOTHING`, name, email)
	if err != nil {
		if isUniqueViolation(err) {
			return database.ErrDuplicate
		}
		return fmt.Errorf("%w: %v", database.ErrQuery, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", database.ErrQuery, err)
	}
	if n > 0 {
		return nil
	}

	exists, err := r.exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return database.ErrNotFound
	}
	return database.ErrDuplicate
}

// RemoveParticipant deletes the roster row
func (r *PostgresActivityRepository) RemoveParticipant(ctx context.Context, name, email string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM activity_participants WHERE activity_name = $1 AND email = $2`, name, email)
	if err != nil {
		return fmt.Errorf("%w: %v", database.ErrQuery, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", database.ErrQuery, err)
	}
	if n > 0 {
		return nil
	}

	exists, err := r.exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return database.ErrNotFound
	}
	return ErrParticipantNotFound
}

// Seed inserts missing activities and their initial rosters in one transaction
func (r *PostgresActivityRepository) Seed(ctx context.Context, activities []*model.Activity) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", database.ErrConnection, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, a := range activities {
		res, err := tx.ExecContext(ctx, `INSERT INTO activities (name, description, schedule, max_participants)
VALUES ($1, $2, $3, $4)
ON CONFLICT (name) DO NOTHING`, a.Name, a.Description, a.Schedule, a.MaxParticipants)
		if err != nil {
			return fmt.Errorf("%w: seed %q: %v", database.ErrQuery, a.Name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %v", database.ErrQuery, err)
		}
		if n == 0 {
			continue
		}

		for _, email := range a.Participants {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO activity_participants (activity_name, email) VALUES ($1, $2)`, a.Name, email); err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("%w: %s listed twice in %q", database.ErrDuplicate, email, a.Name)
				}
				return fmt.Errorf("%w: seed %q: %v", database.ErrQuery, a.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", database.ErrQuery, err)
	}
	return nil
}

// Ping checks the database connection
func (r *PostgresActivityRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", database.ErrConnection, err)
	}
	return nil
}

// Close closes the connection pool
func (r *PostgresActivityRepository) Close() error {
	return r.db.Close()
}

func (r *PostgresActivityRepository) exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM activities WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: %v", database.ErrQuery, err)
	}
	return exists, nil
}

// scanActivities folds joined rows (one per participant) into activities
func scanActivities(rows *sql.Rows) ([]*model.Activity, error) {
	activities := make([]*model.Activity, 0)
	var current *model.Activity

	for rows.Next() {
		var (
			name, description, schedule string
			maxParticipants             int
			email                       sql.NullString
		)
		if err := rows.Scan(&name, &description, &schedule, &maxParticipants, &email); err != nil {
			return nil, fmt.Errorf("%w: %v", database.ErrQuery, err)
		}

		if current == nil || current.Name != name {
			current = &model.Activity{
				Name:            name,
				Description:     description,
				Schedule:        schedule,
				MaxParticipants: maxParticipants,
				Participants:    []string{},
			}
			activities = append(activities, current)
		}
		if email.Valid {
			current.Participants = append(current.Participants, email.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrQuery, err)
	}
	return activities, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
