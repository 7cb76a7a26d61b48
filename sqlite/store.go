package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/fwojciec/rriharvest"
)

// Progress states stored in the progress table.
const (
	stateVisited = "visited"
	stateFailed  = "failed"
)

const metaLastSaved = "last_saved"

// Compile-time interface verification.
var _ rriharvest.SnapshotStore = (*Store)(nil)

// Store implements rriharvest.SnapshotStore over a SQLite database.
// Rows that cannot be decoded are reported on the logger and the affected
// part of the snapshot loads as empty, as the JSON store does for a
// damaged file.
type Store struct {
	db     *DB
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger that receives warnings about damaged rows.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a new Store.
func NewStore(db *DB, opts ...Option) *Store {
	s := &Store{
		db:     db,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// corruptRowError reports a stored value that cannot be decoded.
type corruptRowError struct {
	table string
	err   error
}

func (e *corruptRowError) Error() string {
	return fmt.Sprintf("%s: %v", e.table, e.err)
}

func (e *corruptRowError) Unwrap() error { return e.err }

// Load reads the snapshot. An empty database yields an empty snapshot.
// Undecodable progress, articles or metadata load as empty with a warning;
// database errors are returned.
func (s *Store) Load(ctx context.Context) (*rriharvest.Snapshot, error) {
	snap := rriharvest.NewSnapshot()

	if err := s.loadProgress(ctx, snap.Progress); err != nil {
		if !s.warnCorrupt(err) {
			return nil, err
		}
		snap.Progress = rriharvest.NewProgressState()
	}
	if err := s.loadArticles(ctx, snap.Articles); err != nil {
		if !s.warnCorrupt(err) {
			return nil, err
		}
		snap.Articles = rriharvest.NewArticleIndex()
	}
	if err := s.loadLastSaved(ctx, snap.Progress); err != nil {
		if !s.warnCorrupt(err) {
			return nil, err
		}
		snap.Progress.LastSaved = time.Time{}
	}

	return snap, nil
}

// warnCorrupt logs err and reports true when it describes a damaged row.
func (s *Store) warnCorrupt(err error) bool {
	var rowErr *corruptRowError
	if !errors.As(err, &rowErr) {
		return false
	}
	s.logger.Warn("ignoring unreadable state table",
		"db", s.db.path,
		"table", rowErr.table,
		"err", rowErr.err,
	)
	return true
}

func (s *Store) loadLastSaved(ctx context.Context, state *rriharvest.ProgressState) error {
	var lastSaved string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", metaLastSaved).Scan(&lastSaved)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return err
	}
	t, err := time.Parse(time.RFC3339, lastSaved)
	if err != nil {
		return &corruptRowError{table: "meta", err: fmt.Errorf("parse last_saved: %w", err)}
	}
	state.LastSaved = t
	return nil
}

func (s *Store) loadProgress(ctx context.Context, state *rriharvest.ProgressState) error {
	rows, err := s.db.QueryContext(ctx, "SELECT url, state FROM progress ORDER BY url")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var url, st string
		if err := rows.Scan(&url, &st); err != nil {
			return &corruptRowError{table: "progress", err: err}
		}
		switch st {
		case stateVisited:
			state.MarkVisited(url)
		case stateFailed:
			state.MarkFailed(url)
		}
	}
	return rows.Err()
}

func (s *Store) loadArticles(ctx context.Context, index *rriharvest.ArticleIndex) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, title, content, summary, date, author, category,
			image_url, audio_url, soundcloud_url, content_hash, crawled_at
		FROM articles
		ORDER BY position ASC
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a rriharvest.Article
		var date, author, image, audio, soundcloud sql.NullString
		var crawledAt string

		if err := rows.Scan(&a.URL, &a.Title, &a.Content, &a.Summary, &date, &author, &a.Category,
			&image, &audio, &soundcloud, &a.ContentHash, &crawledAt); err != nil {
			return &corruptRowError{table: "articles", err: err}
		}

		if date.Valid {
			d, err := civil.ParseDate(date.String)
			if err != nil {
				return &corruptRowError{table: "articles", err: fmt.Errorf("parse date of %s: %w", a.URL, err)}
			}
			a.Date = &d
		}
		a.Author = fromNull(author)
		a.ImageURL = fromNull(image)
		a.AudioURL = fromNull(audio)
		a.SoundcloudURL = fromNull(soundcloud)

		a.CrawledAt, err = time.Parse(time.RFC3339Nano, crawledAt)
		if err != nil {
			return &corruptRowError{table: "articles", err: fmt.Errorf("parse crawled_at of %s: %w", a.URL, err)}
		}

		index.Upsert(&a)
	}
	return rows.Err()
}

// Save replaces the stored snapshot inside one transaction.
func (s *Store) Save(ctx context.Context, snap *rriharvest.Snapshot) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM articles", "DELETE FROM progress", "DELETE FROM meta"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	if err := insertArticles(ctx, tx, snap.Articles); err != nil {
		return err
	}
	if err := insertProgress(ctx, tx, snap.Progress); err != nil {
		return err
	}

	if !snap.Progress.LastSaved.IsZero() {
		if _, err := tx.ExecContext(ctx, "INSERT INTO meta (key, value) VALUES (?, ?)",
			metaLastSaved, snap.Progress.LastSaved.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertArticles(ctx context.Context, tx *sql.Tx, index *rriharvest.ArticleIndex) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (url, position, title, content, summary, date, author, category,
			image_url, audio_url, soundcloud_url, content_hash, crawled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, a := range index.All() {
		var date sql.NullString
		if a.Date != nil {
			date = sql.NullString{String: a.Date.String(), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, a.URL, i, a.Title, a.Content, a.Summary, date,
			toNull(a.Author), a.Category, toNull(a.ImageURL), toNull(a.AudioURL),
			toNull(a.SoundcloudURL), a.ContentHash, a.CrawledAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return err
		}
	}
	return nil
}

func insertProgress(ctx context.Context, tx *sql.Tx, state *rriharvest.ProgressState) error {
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO progress (url, state) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, u := range state.Visited() {
		if _, err := stmt.ExecContext(ctx, u, stateVisited); err != nil {
			return err
		}
	}
	for _, u := range state.Failed() {
		if _, err := stmt.ExecContext(ctx, u, stateFailed); err != nil {
			return err
		}
	}
	return nil
}

func toNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
