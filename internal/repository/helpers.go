package repository

import (
	"context"

	"github.com/forgo/mergington/api/internal/database"
	"github.com/forgo/mergington/api/internal/model"
)

// extractRecords flattens SurrealDB statement wrappers into record maps
func extractRecords(results []interface{}) []map[string]interface{} {
	records := make([]map[string]interface{}, 0)
	for _, result := range results {
		resp, ok := result.(map[string]interface{})
		if !ok {
			continue
		}
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if resultData, ok := resp["result"].([]interface{}); ok {
				for _, item := range resultData {
					if rec, ok := item.(map[string]interface{}); ok {
						records = append(records, rec)
					}
				}
			}
			continue
		}
		// Direct record format
		records = append(records, resp)
	}
	return records
}

// activityFromRecord maps a SurrealDB record onto an Activity
func activityFromRecord(m map[string]interface{}) *model.Activity {
	participants := getStringSlice(m, "participants")
	if participants == nil {
		participants = []string{}
	}
	return &model.Activity{
		Name:            getString(m, "name"),
		Description:     getString(m, "description"),
		Schedule:        getString(m, "schedule"),
		MaxParticipants: getInt(m, "max_participants"),
		Participants:    participants,
	}
}

// WithTransaction executes a function within a transaction context
// If the function returns an error, the transaction is rolled back
func WithTransaction(ctx context.Context, db database.Database, fn func(tx database.Transaction) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getInt extracts an int value from a map
func getInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case float32:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	}
	return 0
}

// getStringSlice extracts a string slice from a map
func getStringSlice(m map[string]interface{}, key string) []string {
	switch v := m[key].(type) {
	case []interface{}:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	case []string:
		return append([]string(nil), v...)
	}
	return nil
}
