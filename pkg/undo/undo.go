// Package undo provides the persistent invocation ledger that makes
// destructive operations reversible. Every delete, rename, or move is
// recorded in a sqlite database before the filesystem is touched, and
// deleted files are staged in a backup directory instead of being removed.
package undo

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/iafisher/batchop/pkg/filelock"
)

// Incremented when the schema changes; the version is baked into the
// database file name so old and new schemas never mix.
const databaseVersion = 1

// OpType identifies the kind of filesystem mutation an op records.
type OpType string

const (
	OpDelete OpType = "delete"
	OpRename OpType = "rename"
	OpMove   OpType = "move"
	OpCreate OpType = "create"
)

// Contexts keep separate undo histories for separate entry points, so a
// library caller's operations never shadow the CLI's last invocation.
const (
	ContextCLI = "cli"
	ContextLib = "lib"
)

// ErrNoInvocation indicates the ledger has no recorded invocation to undo.
var ErrNoInvocation = errors.New("no previous invocation")

// Invocation is one recorded run of a destructive operation.
type Invocation struct {
	ID            string
	Context       string
	Cmdline       string
	Undoable      bool
	TimeInvokedMs int64
}

// Op is a single filesystem mutation belonging to an invocation.
type Op struct {
	InvocationID string
	Type         OpType
	PathBefore   string
	PathAfter    string
}

// Ledger records invocations and their ops in a sqlite database under the
// data directory, and manages the backup staging area for deleted files.
// An advisory file lock held for the Ledger's lifetime keeps concurrent
// processes from interleaving writes.
type Ledger struct {
	db        *sql.DB
	lock      *filelock.Lock
	context   string
	backupDir string

	// current invocation, set by Begin
	invocationID string
	seq          int
}

// Open creates the data directory and backup staging area if needed, opens
// the ledger database, and acquires the advisory lock. Callers must Close
// the ledger to release the lock.
func Open(dataDir string, context string) (*Ledger, error) {
	backupDir := filepath.Join(dataDir, "backup")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	lock, err := filelock.Acquire(filepath.Join(dataDir, "lock"))
	if err != nil {
		return nil, fmt.Errorf("another process is using the undo history: %w", err)
	}

	dbPath := filepath.Join(dataDir, fmt.Sprintf("db_%d.sqlite3", databaseVersion))
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		lock.Close()
		return nil, fmt.Errorf("open ledger database: %w", err)
	}

	l := &Ledger{db: db, lock: lock, context: context, backupDir: backupDir}
	if err := l.init(); err != nil {
		db.Close()
		lock.Close()
		return nil, err
	}

	return l, nil
}

func (l *Ledger) init() error {
	if _, err := l.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS invocation(
	  invocation_id TEXT PRIMARY KEY,
	  context TEXT NOT NULL,
	  cmdline TEXT NOT NULL,
	  undoable INTEGER NOT NULL,
	  time_invoked_ms INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS invocation_op(
	  invocation_id TEXT NOT NULL,
	  op_type TEXT NOT NULL CHECK (op_type IN ('delete', 'rename', 'move', 'create')),
	  path_before TEXT NOT NULL,
	  path_after TEXT NOT NULL,

	  FOREIGN KEY (invocation_id) REFERENCES invocation(invocation_id) ON DELETE CASCADE
	);
	`
	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("create ledger schema: %w", err)
	}

	return nil
}

// Close releases the advisory lock and closes the database.
func (l *Ledger) Close() error {
	dbErr := l.db.Close()
	lockErr := l.lock.Close()
	if dbErr != nil {
		return fmt.Errorf("close ledger database: %w", dbErr)
	}
	return lockErr
}

// Context returns the history context this ledger was opened with.
func (l *Ledger) Context() string {
	return l.context
}

// BackupDir returns the staging directory for deleted files.
func (l *Ledger) BackupDir() string {
	return l.backupDir
}

// Begin records a new invocation and makes it current, so subsequent AddOp
// calls attach to it.
func (l *Ledger) Begin(cmdline string, undoable bool) error {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	_, err := l.db.Exec(
		`INSERT INTO invocation(invocation_id, context, cmdline, undoable, time_invoked_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		id, l.context, cmdline, undoable, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record invocation: %w", err)
	}

	l.invocationID = id
	l.seq = 0
	return nil
}

// InvocationID returns the id of the current invocation, or "" before Begin.
func (l *Ledger) InvocationID() string {
	return l.invocationID
}

// AddOp records one mutation under the current invocation. For delete ops
// pathAfter should be empty: AddOp allocates the backup location and returns
// it, and the caller moves the file there AFTER this call returns, so a
// crash between the two leaves a recorded op for a file that still exists
// rather than a moved file with no record.
func (l *Ledger) AddOp(op OpType, pathBefore, pathAfter string) (string, error) {
	if l.invocationID == "" {
		panic("undo: AddOp called before Begin")
	}

	if pathAfter == "" {
		pathAfter = filepath.Join(l.backupDir, fmt.Sprintf("%s___%08d", l.invocationID, l.seq))
		l.seq++
	}

	_, err := l.db.Exec(
		`INSERT INTO invocation_op(invocation_id, op_type, path_before, path_after)
		 VALUES (?, ?, ?, ?)`,
		l.invocationID, string(op), pathBefore, pathAfter,
	)
	if err != nil {
		return "", fmt.Errorf("record op: %w", err)
	}

	return pathAfter, nil
}

// LastInvocation returns the most recent invocation in this ledger's
// context together with its ops, or ErrNoInvocation if there is none.
func (l *Ledger) LastInvocation() (*Invocation, []Op, error) {
	row := l.db.QueryRow(
		`SELECT invocation_id, context, cmdline, undoable, time_invoked_ms
		 FROM invocation
		 WHERE context = ?
		 ORDER BY time_invoked_ms DESC, invocation_id DESC
		 LIMIT 1`,
		l.context,
	)

	var inv Invocation
	var undoable int
	err := row.Scan(&inv.ID, &inv.Context, &inv.Cmdline, &undoable, &inv.TimeInvokedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNoInvocation
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read invocation: %w", err)
	}
	inv.Undoable = undoable != 0

	rows, err := l.db.Query(
		`SELECT invocation_id, op_type, path_before, path_after
		 FROM invocation_op
		 WHERE invocation_id = ?
		 ORDER BY rowid`,
		inv.ID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("read ops: %w", err)
	}
	defer rows.Close()

	var ops []Op
	for rows.Next() {
		var op Op
		var opType string
		if err := rows.Scan(&op.InvocationID, &opType, &op.PathBefore, &op.PathAfter); err != nil {
			return nil, nil, fmt.Errorf("read op: %w", err)
		}
		op.Type = OpType(opType)
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("read ops: %w", err)
	}

	return &inv, ops, nil
}

// Delete removes an invocation and, through the foreign key cascade, its
// ops. Called after a successful undo so the next undo sees the invocation
// before it.
func (l *Ledger) Delete(invocationID string) error {
	if _, err := l.db.Exec(
		`DELETE FROM invocation WHERE invocation_id = ?`, invocationID,
	); err != nil {
		return fmt.Errorf("delete invocation: %w", err)
	}
	return nil
}

// DefaultDataDir returns the per-user data directory for batchop, honoring
// XDG_DATA_HOME and falling back to ~/.local/share.
func DefaultDataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "batchop"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "batchop"), nil
}
