// Package testdb provides test database utilities for the activity API.
//
// # Isolation
//
// Each call to New connects to a fresh namespace, applies the schema
// statements passed to it and registers cleanup with t.Cleanup:
//
//	tdb := testdb.New(t, repository.SurrealSchema)
//
// # Configuration
//
// TEST_DB_HOST enables the package; without it New skips the test.
// TEST_DB_PORT, TEST_DB_USER and TEST_DB_PASSWORD default to 8000, root
// and root.
package testdb
