package database

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// SurrealDB implements the Database interface over a single websocket
// connection from surrealdb.go.
type SurrealDB struct {
	db     *surrealdb.DB
	config Config
}

// NewSurrealDB creates an unconnected SurrealDB; call Connect before use
func NewSurrealDB(cfg Config) *SurrealDB {
	return &SurrealDB{config: cfg}
}

// Endpoint is the websocket URL for the configured host and port
func (c Config) Endpoint() string {
	return fmt.Sprintf("ws://%s:%s", c.Host, c.Port)
}

// Connect dials the server, signs in as root and selects the namespace
// and database.
func (s *SurrealDB) Connect(ctx context.Context) error {
	db, err := surrealdb.FromEndpointURLString(ctx, s.config.Endpoint())
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", ErrConnection, s.config.Endpoint(), err)
	}

	fail := func(step string, err error) error {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: %s: %v", ErrConnection, step, err)
	}

	if _, err := db.SignIn(ctx, &surrealdb.Auth{
		Username: s.config.User,
		Password: s.config.Password,
	}); err != nil {
		return fail("signin", err)
	}
	if err := db.Use(ctx, s.config.Namespace, s.config.Database); err != nil {
		return fail("use", err)
	}

	s.db = db
	return nil
}

// Close closes the connection. Closing an unconnected client is a no-op.
func (s *SurrealDB) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close(context.Background())
}

// Ping asks the server for its version
func (s *SurrealDB) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrConnection
	}
	if _, err := s.db.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Query runs query and returns one {"status", "result"} map per statement.
// A statement that did not finish OK fails the whole call with ErrQuery.
func (s *SurrealDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	if s.db == nil {
		return nil, ErrConnection
	}

	results, err := surrealdb.Query[interface{}](ctx, s.db, query, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if results == nil {
		return nil, nil
	}

	stmts := make([]statement, 0, len(*results))
	for _, r := range *results {
		st := statement{status: r.Status, result: r.Result}
		if r.Error != nil {
			st.errMsg = r.Error.Message
		}
		stmts = append(stmts, st)
	}
	return statementMaps(stmts)
}

// statement is one entry of a multi-statement response
type statement struct {
	status string
	result interface{}
	errMsg string
}

func statementMaps(stmts []statement) ([]interface{}, error) {
	output := make([]interface{}, 0, len(stmts))
	for i, st := range stmts {
		if st.status != "OK" {
			msg := st.status
			if st.errMsg != "" {
				msg = st.errMsg
			}
			return nil, fmt.Errorf("%w: statement %d: %s", ErrQuery, i+1, msg)
		}
		output = append(output, map[string]interface{}{
			"status": st.status,
			"result": st.result,
		})
	}
	return output, nil
}

// Execute runs query and discards the results
func (s *SurrealDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := s.Query(ctx, query, vars)
	return err
}

// BeginTx starts a batch that is sent in one round trip on Commit
func (s *SurrealDB) BeginTx(ctx context.Context) (Transaction, error) {
	if s.db == nil {
		return nil, ErrConnection
	}
	return &batch{db: s, ctx: ctx}, nil
}

// batch queues statements and sends them wrapped in BEGIN/COMMIT
type batch struct {
	db    *SurrealDB
	ctx   context.Context
	stmts []string
	vars  map[string]interface{}
	done  bool
}

// Execute queues query. Variables are merged into one map for the whole
// batch, so reusing a name with a different value is an error.
func (b *batch) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	if b.done {
		return fmt.Errorf("%w: batch already finished", ErrQuery)
	}
	if b.vars == nil {
		b.vars = make(map[string]interface{}, len(vars))
	}
	for k, v := range vars {
		if prev, ok := b.vars[k]; ok && !reflect.DeepEqual(prev, v) {
			return fmt.Errorf("%w: variable $%s bound twice in one batch", ErrQuery, k)
		}
		b.vars[k] = v
	}
	b.stmts = append(b.stmts, strings.TrimSpace(query))
	return nil
}

// script renders the queued statements as one transaction
func (b *batch) script() string {
	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range b.stmts {
		sb.WriteString(strings.TrimSuffix(stmt, ";"))
		sb.WriteString(";\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")
	return sb.String()
}

// Commit sends the batch. An empty batch commits without a round trip.
func (b *batch) Commit() error {
	if b.done {
		return nil
	}
	b.done = true
	if len(b.stmts) == 0 {
		return nil
	}
	if _, err := b.db.Query(b.ctx, b.script(), b.vars); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rollback discards the batch; nothing has reached the server yet
func (b *batch) Rollback() error {
	b.stmts = nil
	b.vars = nil
	b.done = true
	return nil
}
