// ABOUTME: SQLite-backed content store for records shared by history, bookmarks and feed entries
// ABOUTME: Survives restarts; WriteTransaction runs the read-modify-write inside one SQL transaction

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"manabi-reader/core/domain"
	coreerrors "manabi-reader/core/errors"
)

const recordColumns = `kind, compound_key, url, title, author, content,
	reader_mode_by_default, reader_mode_available, rss_full_content, from_clipboard,
	min_content_length, inject_entry_image, image_url, publication_date,
	display_publication_date, modified_at`

// Store implements interfaces.ContentStore on a SQLite database file.
type Store struct {
	db       *sql.DB
	filePath string
	now      func() time.Time
}

// NewStore opens (or creates) the database at filePath.
func NewStore(filePath string) (*Store, error) {
	if filePath == "" {
		filePath = "records.db"
	}

	db, err := sql.Open("sqlite3", filePath+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// One connection serializes writers, which SQLite needs anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	s := &Store{db: db, filePath: filePath, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS records (
			kind TEXT NOT NULL,
			compound_key TEXT NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			content BLOB,
			reader_mode_by_default INTEGER NOT NULL DEFAULT 0,
			reader_mode_available INTEGER NOT NULL DEFAULT 0,
			rss_full_content INTEGER NOT NULL DEFAULT 0,
			from_clipboard INTEGER NOT NULL DEFAULT 0,
			min_content_length INTEGER NOT NULL DEFAULT 0,
			inject_entry_image INTEGER NOT NULL DEFAULT 0,
			image_url TEXT NOT NULL DEFAULT '',
			publication_date INTEGER,
			display_publication_date INTEGER NOT NULL DEFAULT 0,
			modified_at INTEGER NOT NULL,
			PRIMARY KEY (kind, compound_key)
		);
		CREATE INDEX IF NOT EXISTS idx_records_url ON records(url);
	`
	_, err := s.db.Exec(query)
	return err
}

// priorityOrder sorts rows by domain.KindPriority.
func priorityOrder() (string, []interface{}) {
	var b strings.Builder
	args := make([]interface{}, 0, len(domain.KindPriority))
	b.WriteString("CASE kind")
	for i, kind := range domain.KindPriority {
		fmt.Fprintf(&b, " WHEN ? THEN %d", i)
		args = append(args, string(kind))
	}
	fmt.Fprintf(&b, " ELSE %d END", len(domain.KindPriority))
	return b.String(), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*domain.ContentRecord, error) {
	var (
		rec      domain.ContentRecord
		kind     string
		pubDate  sql.NullInt64
		modified int64
	)
	err := row.Scan(&kind, &rec.CompoundKey, &rec.URL, &rec.Title, &rec.Author, &rec.Content,
		&rec.IsReaderModeByDefault, &rec.IsReaderModeAvailable, &rec.RSSContainsFullContent, &rec.IsFromClipboard,
		&rec.MeaningfulContentMinLength, &rec.InjectEntryImageIntoHeader, &rec.ImageURL, &pubDate,
		&rec.DisplayPublicationDate, &modified)
	if err != nil {
		return nil, err
	}
	rec.Kind = domain.RecordKind(kind)
	if pubDate.Valid {
		t := time.Unix(0, pubDate.Int64).UTC()
		rec.PublicationDate = &t
	}
	rec.ModifiedAt = time.Unix(0, modified).UTC()
	if len(rec.Content) == 0 {
		rec.Content = nil
	}
	return &rec, nil
}

func recordArgs(rec *domain.ContentRecord) []interface{} {
	var pubDate interface{}
	if rec.PublicationDate != nil {
		pubDate = rec.PublicationDate.UnixNano()
	}
	return []interface{}{
		string(rec.Kind), rec.CompoundKey, rec.URL, rec.Title, rec.Author, rec.Content,
		rec.IsReaderModeByDefault, rec.IsReaderModeAvailable, rec.RSSContainsFullContent, rec.IsFromClipboard,
		rec.MeaningfulContentMinLength, rec.InjectEntryImageIntoHeader, rec.ImageURL, pubDate,
		rec.DisplayPublicationDate, rec.ModifiedAt.UnixNano(),
	}
}

// LoadRecord returns the highest-priority record whose URL is url.
func (s *Store) LoadRecord(ctx context.Context, url string) (*domain.ContentRecord, error) {
	order, args := priorityOrder()
	query := "SELECT " + recordColumns + " FROM records WHERE url = ? ORDER BY " + order + " LIMIT 1"

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, append([]interface{}{url}, args...)...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &coreerrors.NotFoundError{Resource: "record", ID: url}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}
	return rec, nil
}

// LoadAllRecordsSharingURL returns every record whose URL is url, in kind priority order.
func (s *Store) LoadAllRecordsSharingURL(ctx context.Context, url string) ([]*domain.ContentRecord, error) {
	order, args := priorityOrder()
	query := "SELECT " + recordColumns + " FROM records WHERE url = ? ORDER BY " + order

	rows, err := s.db.QueryContext(ctx, query, append([]interface{}{url}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var out []*domain.ContentRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveRecord inserts or replaces record. A missing compound key is derived from the URL.
func (s *Store) SaveRecord(ctx context.Context, record *domain.ContentRecord) error {
	if record == nil || record.URL == "" {
		return &coreerrors.ValidationError{Field: "url", Message: "record url is required"}
	}
	rec := record.Clone()
	if rec.Kind == "" {
		rec.Kind = domain.KindHistory
	}
	if rec.CompoundKey == "" {
		rec.CompoundKey = domain.CompoundKey(rec.URL)
	}
	rec.ModifiedAt = s.now()

	query := "INSERT OR REPLACE INTO records (" + recordColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	if _, err := s.db.ExecContext(ctx, query, recordArgs(rec)...); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	record.Kind = rec.Kind
	record.CompoundKey = rec.CompoundKey
	record.ModifiedAt = rec.ModifiedAt
	return nil
}

// WriteTransaction re-reads the referenced record inside a transaction and
// writes it back only when mutate succeeds.
func (s *Store) WriteTransaction(ctx context.Context, ref domain.RecordRef, mutate func(*domain.ContentRecord) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "SELECT " + recordColumns + " FROM records WHERE kind = ? AND compound_key = ?"
	rec, err := scanRecord(tx.QueryRowContext(ctx, query, string(ref.Kind), ref.CompoundKey))
	if errors.Is(err, sql.ErrNoRows) {
		return &coreerrors.NotFoundError{Resource: "record", ID: ref.CompoundKey}
	}
	if err != nil {
		return fmt.Errorf("failed to load record: %w", err)
	}

	if err := mutate(rec); err != nil {
		return err
	}
	rec.Kind = ref.Kind
	rec.CompoundKey = ref.CompoundKey
	rec.ModifiedAt = s.now()

	update := `
		UPDATE records SET url = ?, title = ?, author = ?, content = ?,
			reader_mode_by_default = ?, reader_mode_available = ?, rss_full_content = ?, from_clipboard = ?,
			min_content_length = ?, inject_entry_image = ?, image_url = ?, publication_date = ?,
			display_publication_date = ?, modified_at = ?
		WHERE kind = ? AND compound_key = ?
	`
	args := recordArgs(rec)
	args = append(args[2:], string(ref.Kind), ref.CompoundKey)
	if _, err := tx.ExecContext(ctx, update, args...); err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RecordsWithoutContent returns up to limit records that still need content, oldest first.
func (s *Store) RecordsWithoutContent(ctx context.Context, limit int) ([]*domain.ContentRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	query := "SELECT " + recordColumns + " FROM records WHERE content IS NULL OR length(content) = 0 ORDER BY modified_at LIMIT ?"
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var out []*domain.ContentRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Stats returns store statistics.
func (s *Store) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&count); err != nil {
		return nil, err
	}
	stats["total_records"] = count

	var pending int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records WHERE content IS NULL OR length(content) = 0").Scan(&pending); err != nil {
		return nil, err
	}
	stats["records_without_content"] = pending
	stats["file_path"] = s.filePath
	return stats, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
