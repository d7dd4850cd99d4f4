package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/forgo/mergington/api/internal/database"
	"github.com/forgo/mergington/api/internal/model"
)

// SurrealSchema defines the activity table. The unique index on name keeps
// Seed from creating the same activity twice.
const SurrealSchema = `
DEFINE TABLE IF NOT EXISTS activity SCHEMALESS;
DEFINE INDEX IF NOT EXISTS activity_name ON TABLE activity FIELDS name UNIQUE;
`

// SurrealActivityRepository stores activities in the SurrealDB `activity`
// table, one record per activity with the roster as an array field.
type SurrealActivityRepository struct {
	db database.Database
}

// NewSurrealActivityRepository creates a new SurrealDB-backed repository
func NewSurrealActivityRepository(db database.Database) *SurrealActivityRepository {
	return &SurrealActivityRepository{db: db}
}

// Migrate applies SurrealSchema
func (r *SurrealActivityRepository) Migrate(ctx context.Context) error {
	return r.db.Execute(ctx, SurrealSchema, nil)
}

// List retrieves every activity ordered by name
func (r *SurrealActivityRepository) List(ctx context.Context) ([]*model.Activity, error) {
	query := `SELECT * FROM activity ORDER BY name`

	results, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	records := extractRecords(results)
	activities := make([]*model.Activity, 0, len(records))
	for _, rec := range records {
		activities = append(activities, activityFromRecord(rec))
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Name < activities[j].Name
	})
	return activities, nil
}

// GetByName retrieves an activity by name, or nil if absent
func (r *SurrealActivityRepository) GetByName(ctx context.Context, name string) (*model.Activity, error) {
	query := `SELECT * FROM activity WHERE name = $name LIMIT 1`
	vars := map[string]interface{}{"name": name}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records := extractRecords(results)
	if len(records) == 0 {
		return nil, nil
	}
	return activityFromRecord(records[0]), nil
}

// AddParticipant appends email in a single conditional UPDATE so two
// concurrent signups for the same email can't both succeed.
func (r *SurrealActivityRepository) AddParticipant(ctx context.Context, name, email string) error {
	query := `
		UPDATE activity SET
			participants += $email,
			updated_on = time::now()
		WHERE name = $name AND $email NOTINSIDE participants
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"name":  name,
		"email": email,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}
	if len(extractRecords(results)) > 0 {
		return nil
	}

	// Nothing updated: either the activity is missing or the email is taken
	existing, err := r.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing == nil {
		return database.ErrNotFound
	}
	return database.ErrDuplicate
}

// RemoveParticipant removes email with a conditional UPDATE
func (r *SurrealActivityRepository) RemoveParticipant(ctx context.Context, name, email string) error {
	query := `
		UPDATE activity SET
			participants -= $email,
			updated_on = time::now()
		WHERE name = $name AND $email INSIDE participants
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"name":  name,
		"email": email,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}
	if len(extractRecords(results)) > 0 {
		return nil
	}

	existing, err := r.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing == nil {
		return database.ErrNotFound
	}
	return ErrParticipantNotFound
}

// Seed creates the activities that don't exist yet in one transaction
func (r *SurrealActivityRepository) Seed(ctx context.Context, activities []*model.Activity) error {
	existing, err := r.List(ctx)
	if err != nil {
		return err
	}
	present := make(map[string]bool, len(existing))
	for _, a := range existing {
		present[a.Name] = true
	}

	return WithTransaction(ctx, r.db, func(tx database.Transaction) error {
		for i, a := range activities {
			if present[a.Name] {
				continue
			}
			// Statements are concatenated at commit, so vars need unique names
			query := fmt.Sprintf(`
				CREATE activity SET
					name = $name_%[1]d,
					description = $description_%[1]d,
					schedule = $schedule_%[1]d,
					max_participants = $max_%[1]d,
					participants = $participants_%[1]d,
					created_on = time::now(),
					updated_on = time::now()
			`, i)
			participants := a.Participants
			if participants == nil {
				participants = []string{}
			}
			vars := map[string]interface{}{
				fmt.Sprintf("name_%d", i):         a.Name,
				fmt.Sprintf("description_%d", i):  a.Description,
				fmt.Sprintf("schedule_%d", i):     a.Schedule,
				fmt.Sprintf("max_%d", i):          a.MaxParticipants,
				fmt.Sprintf("participants_%d", i): participants,
			}
			if err := tx.Execute(ctx, query, vars); err != nil {
				return err
			}
		}
		return nil
	})
}

// Ping checks the database connection
func (r *SurrealActivityRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close closes the underlying connection
func (r *SurrealActivityRepository) Close() error {
	return r.db.Close()
}
