package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DefaultBatchSize is the number of inserts committed per transaction.
const DefaultBatchSize = 1000

// ErrConnectionBroken is returned by every insert after a storage failure
// that rolled back the open batch.
var ErrConnectionBroken = errors.New("staging connection broken")

// BatchLostError reports a storage failure that rolled back the open batch.
// Discarded counts the earlier inserts of that batch; each of them had
// already returned nil to its caller.
type BatchLostError struct {
	Discarded int
	Err       error
}

func (e *BatchLostError) Error() string {
	return fmt.Sprintf("%v (%d pending rows discarded)", e.Err, e.Discarded)
}

func (e *BatchLostError) Unwrap() error { return e.Err }

// Inserter is the only storage surface entity modules depend on.
type Inserter interface {
	Insert(query string, args ...any) error
}

// Connection is the staging write path. It pins one connection, caches one
// prepared statement per SQL template and groups inserts into transactions
// of batchSize rows. Safe for concurrent use; callers are serialized.
type Connection struct {
	mu        sync.Mutex
	db        *DB
	conn      *sql.Conn
	stmts     map[string]*sql.Stmt
	batchSize int
	pending   int
	inTx      bool
	broken    error
}

var _ Inserter = (*Connection)(nil)

// NewConnection pins a connection of db for writing.
func NewConnection(db *DB, batchSize int) (*Connection, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	conn, err := db.Conn(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	return &Connection{
		db:        db,
		conn:      conn,
		stmts:     make(map[string]*sql.Stmt),
		batchSize: batchSize,
	}, nil
}

// Insert executes query with args bound positionally.
//
// Constraint violations are returned and leave the batch intact, so later
// inserts still land. Any other failure rolls the batch back and breaks the
// connection: a *BatchLostError is returned now and ErrConnectionBroken
// afterwards. Rows of the rolled-back batch are gone, so a run that hits
// ErrConnectionBroken has to be restarted on a fresh database.
func (c *Connection) Insert(query string, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken != nil {
		return fmt.Errorf("%w: %v", ErrConnectionBroken, c.broken)
	}

	ctx := context.Background()
	if !c.inTx {
		if _, err := c.conn.ExecContext(ctx, "BEGIN"); err != nil {
			c.broken = err
			return fmt.Errorf("failed to begin batch: %w", err)
		}
		c.inTx = true
	}

	stmt, err := c.prepare(ctx, query)
	if err != nil {
		return err
	}

	if _, err := stmt.ExecContext(ctx, args...); err != nil {
		if isConstraint(err) {
			return fmt.Errorf("failed to insert: %w", err)
		}
		return fmt.Errorf("failed to insert: %w", c.fail(ctx, err))
	}

	c.pending++
	if c.pending >= c.batchSize {
		return c.commit(ctx)
	}
	return nil
}

// Flush commits the open batch.
func (c *Connection) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken != nil {
		return fmt.Errorf("%w: %v", ErrConnectionBroken, c.broken)
	}
	return c.commit(context.Background())
}

// Close commits pending rows and releases statements and the connection.
// The underlying DB stays open.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.broken == nil {
		if err := c.commit(context.Background()); err != nil {
			errs = append(errs, err)
		}
	}

	for query, stmt := range c.stmts {
		if err := stmt.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close statement: %w", err))
		}
		delete(c.stmts, query)
	}

	if err := c.conn.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
	}
	return errors.Join(errs...)
}

func (c *Connection) prepare(ctx context.Context, query string) (*sql.Stmt, error) {
	if stmt, ok := c.stmts[query]; ok {
		return stmt, nil
	}

	// A statement that fails to prepare is a malformed template, not a
	// storage failure, so the batch is kept.
	stmt, err := c.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	c.stmts[query] = stmt
	return stmt, nil
}

func (c *Connection) commit(ctx context.Context) error {
	if !c.inTx {
		return nil
	}

	if _, err := c.conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("failed to commit batch: %w", c.fail(ctx, err))
	}
	c.inTx = false
	c.pending = 0
	return nil
}

// fail rolls back whatever SQLite still holds and marks the connection broken.
func (c *Connection) fail(ctx context.Context, cause error) *BatchLostError {
	if c.inTx {
		// SQLite may already have rolled back on its own; the error is expected then.
		_, _ = c.conn.ExecContext(ctx, "ROLLBACK")
	}
	lost := &BatchLostError{Discarded: c.pending, Err: cause}
	c.inTx = false
	c.pending = 0
	c.broken = lost
	return lost
}

func isConstraint(err error) bool {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	return sqlErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
