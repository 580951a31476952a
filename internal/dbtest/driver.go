// Package dbtest provides a scripted database/sql driver for exercising
// repositories and handlers without a live MySQL.  Each test declares
// the ordered sequence of queries it expects; any deviation (wrong kind,
// wrong statement, wrong args) fails the step.  Transactions are
// accepted and are no-ops at the driver level, which is enough to drive
// the conditional-update claim paths.
package dbtest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sync"
	"testing"
	"time"
)

// Kind distinguishes query steps from exec steps.
type Kind int

const (
	KindQuery Kind = iota
	KindExec
)

// Step is one expected statement.  Args nil skips argument checking.
// For query steps, Columns and Rows shape the result set; for exec
// steps, Result is returned (a zero Result when nil).  A non-nil Err is
// returned instead of any result.
type Step struct {
	Kind    Kind
	Pattern *regexp.Regexp
	Args    []driver.Value
	Columns []string
	Rows    [][]driver.Value
	Err     error
	Result  driver.Result
}

// Result implements driver.Result for exec steps.
type Result struct {
	InsertID int64
	Affected int64
}

func (r Result) LastInsertId() (int64, error) { return r.InsertID, nil }

func (r Result) RowsAffected() (int64, error) { return r.Affected, nil }

// DB holds the remaining script.  Tests call VerifyComplete at the end
// to assert every declared step was consumed.
type DB struct {
	mu    sync.Mutex
	steps []*Step
}

func (db *DB) next(kind Kind, query string, args []driver.NamedValue) (*Step, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.steps) == 0 {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	step := db.steps[0]
	if step.Kind != kind {
		return nil, fmt.Errorf("unexpected kind for query %s: got %v want %v", query, kind, step.Kind)
	}
	if !step.Pattern.MatchString(query) {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	if step.Args != nil {
		if len(step.Args) != len(args) {
			return nil, fmt.Errorf("unexpected arg count for %s: got %d want %d", query, len(args), len(step.Args))
		}
		for i := range args {
			if args[i].Value != step.Args[i] {
				return nil, fmt.Errorf("unexpected arg %d for %s: got %v want %v", i, query, args[i].Value, step.Args[i])
			}
		}
	}
	db.steps = db.steps[1:]
	return step, nil
}

// VerifyComplete reports an error when declared steps were never reached.
func (db *DB) VerifyComplete() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.steps) != 0 {
		return fmt.Errorf("unmet expectations: %d", len(db.steps))
	}
	return nil
}

type scriptedDriver struct {
	db *DB
}

func (d *scriptedDriver) Open(string) (driver.Conn, error) {
	return &scriptedConn{db: d.db}, nil
}

type scriptedConn struct {
	db *DB
}

func (c *scriptedConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *scriptedConn) Close() error { return nil }

func (c *scriptedConn) Begin() (driver.Tx, error) { return scriptedTx{}, nil }

func (c *scriptedConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	return scriptedTx{}, nil
}

type scriptedTx struct{}

func (scriptedTx) Commit() error   { return nil }
func (scriptedTx) Rollback() error { return nil }

func (c *scriptedConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	step, err := c.db.next(KindQuery, query, args)
	if err != nil {
		return nil, err
	}
	if step.Err != nil {
		return nil, step.Err
	}
	return &scriptedRows{columns: step.Columns, rows: step.Rows}, nil
}

func (c *scriptedConn) Query(query string, args []driver.Value) (driver.Rows, error) {
	named := make([]driver.NamedValue, len(args))
	for i, v := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return c.QueryContext(context.Background(), query, named)
}

func (c *scriptedConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	step, err := c.db.next(KindExec, query, args)
	if err != nil {
		return nil, err
	}
	if step.Err != nil {
		return nil, step.Err
	}
	if step.Result != nil {
		return step.Result, nil
	}
	return Result{}, nil
}

func (c *scriptedConn) Exec(query string, args []driver.Value) (driver.Result, error) {
	named := make([]driver.NamedValue, len(args))
	for i, v := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return c.ExecContext(context.Background(), query, named)
}

type scriptedRows struct {
	columns []string
	rows    [][]driver.Value
	idx     int
}

func (r *scriptedRows) Columns() []string { return r.columns }

func (r *scriptedRows) Close() error { return nil }

func (r *scriptedRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.idx]
	for i := range dest {
		dest[i] = nil
	}
	for i := range row {
		dest[i] = row[i]
	}
	r.idx++
	return nil
}

// New registers a scripted driver with a unique name and opens a *sql.DB
// over it, limited to one connection so steps run in declaration order.
func New(t *testing.T, steps []*Step) (*sql.DB, *DB, func()) {
	t.Helper()
	state := &DB{steps: steps}
	driverName := fmt.Sprintf("scripted_%d", time.Now().UnixNano())
	sql.Register(driverName, &scriptedDriver{db: state})

	db, err := sql.Open(driverName, "")
	if err != nil {
		t.Fatalf("failed to open sql db: %v", err)
	}
	db.SetMaxOpenConns(1)

	cleanup := func() {
		_ = db.Close()
	}
	return db, state, cleanup
}
