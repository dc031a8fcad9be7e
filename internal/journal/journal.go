package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spaolacci/murmur3"

	gerrors "github.com/gamelistedit/gamelistedit/internal/errors"
)

// Journal records exports.
type Journal interface {
	// Record stores e. Empty ID and zero CreatedAt are filled in.
	Record(ctx context.Context, e *Entry) error

	// History returns the entries for target, newest first. limit <= 0
	// returns all of them.
	History(ctx context.Context, target string, limit int) ([]*Entry, error)

	// Last returns the newest entry for target, or nil when there is none.
	Last(ctx context.Context, target string) (*Entry, error)

	// Close closes the database.
	Close() error
}

// Entry is one successful export.
type Entry struct {
	ID        string
	Target    string
	Source    string
	Format    string
	Rows      int
	Bytes     int64
	Checksum  string
	Backup    string
	CreatedAt time.Time
}

// Checksum returns the content checksum stored in entries.
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", murmur3.Sum64(data))
}

// SQLiteJournal implements Journal on a SQLite database.
type SQLiteJournal struct {
	db *sql.DB
	mu sync.Mutex

	insertStmt *sql.Stmt
}

// Open opens or creates the journal database at dbPath.
func Open(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, gerrors.NewJournalError("failed to open database", err).WithPath(dbPath)
	}
	db.SetMaxOpenConns(1)

	j := &SQLiteJournal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, gerrors.NewJournalError("failed to initialize schema", err).WithPath(dbPath)
	}

	stmt, err := db.Prepare(insertExportSQL)
	if err != nil {
		db.Close()
		return nil, gerrors.NewJournalError("failed to prepare insert", err).WithPath(dbPath)
	}
	j.insertStmt = stmt
	return j, nil
}

func (j *SQLiteJournal) initSchema() error {
	if _, err := j.db.Exec(CreateExportsTableSQL); err != nil {
		return err
	}
	for _, stmt := range CreateExportsIndexesSQL {
		if _, err := j.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Record implements Journal.
func (j *SQLiteJournal) Record(ctx context.Context, e *Entry) error {
	if e == nil || e.Target == "" {
		return gerrors.NewInvalidArgument(gerrors.ErrCategoryJournal, "entry needs a target path")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	_, err := j.insertStmt.ExecContext(ctx,
		e.ID, e.Target, e.Source, e.Format,
		e.Rows, e.Bytes, e.Checksum, e.Backup, e.CreatedAt.UnixNano())
	if err != nil {
		return gerrors.NewJournalError("failed to record export", err).WithPath(e.Target)
	}
	return nil
}

// History implements Journal.
func (j *SQLiteJournal) History(ctx context.Context, target string, limit int) ([]*Entry, error) {
	query := selectExportsSQL + ` WHERE target_path = ? ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{target}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, gerrors.NewJournalError("failed to query exports", err).WithPath(target)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		var created int64
		if err := rows.Scan(&e.ID, &e.Target, &e.Source, &e.Format,
			&e.Rows, &e.Bytes, &e.Checksum, &e.Backup, &created); err != nil {
			return nil, gerrors.NewJournalError("failed to scan export", err).WithPath(target)
		}
		e.CreatedAt = time.Unix(0, created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.NewJournalError("failed to read exports", err).WithPath(target)
	}
	return entries, nil
}

// Last implements Journal.
func (j *SQLiteJournal) Last(ctx context.Context, target string) (*Entry, error) {
	entries, err := j.History(ctx, target, 1)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return entries[0], nil
}

// Close implements Journal.
func (j *SQLiteJournal) Close() error {
	if j.insertStmt != nil {
		j.insertStmt.Close()
	}
	return j.db.Close()
}
