// Package fs provides file-based storage for crawl state.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/araddon/dateparse"
	"github.com/fwojciec/rriharvest"
)

// File names inside the output directory.
const (
	ArticlesFile = "articles.json"
	ProgressFile = "progress.json"
	StatsFile    = "stats.json"
)

// Ensure Store implements rriharvest.SnapshotStore at compile time.
var _ rriharvest.SnapshotStore = (*Store)(nil)

// Store keeps crawl state as JSON files in a directory.
// Every file is replaced atomically: written to a temporary file in the
// same directory, synced, then renamed over the previous version.
// Missing files load as empty state; unparseable files load as empty state
// and are reported on the logger.
type Store struct {
	dir     string
	section string
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger that receives warnings about damaged files.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithSection sets the section label written to the stats file.
func WithSection(section string) Option {
	return func(s *Store) {
		s.section = section
	}
}

// NewStore creates a Store over dir. The directory is created on first save.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:    dir,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the store's directory.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads progress and articles.
func (s *Store) Load(ctx context.Context) (*rriharvest.Snapshot, error) {
	progress, err := s.LoadProgress(ctx)
	if err != nil {
		return nil, err
	}
	articles, err := s.LoadArticles(ctx)
	if err != nil {
		return nil, err
	}
	return &rriharvest.Snapshot{Progress: progress, Articles: articles}, nil
}

// Save writes articles, then progress, then stats.
// Articles go first so a crash between the two writes never leaves progress
// claiming URLs whose articles were not saved.
func (s *Store) Save(ctx context.Context, snap *rriharvest.Snapshot) error {
	if err := s.SaveArticles(ctx, snap.Articles); err != nil {
		return err
	}
	if err := s.SaveProgress(ctx, snap.Progress); err != nil {
		return err
	}
	return s.writeJSON(StatsFile, snap.Stats(s.section))
}

// progressFile is the on-disk shape of the progress file.
type progressFile struct {
	VisitedURLs []string `json:"visited_urls"`
	FailedURLs  []string `json:"failed_urls"`
	LastSaved   *string  `json:"last_saved"`
}

// LoadProgress reads the progress file.
func (s *Store) LoadProgress(ctx context.Context) (*rriharvest.ProgressState, error) {
	state := rriharvest.NewProgressState()

	data, err := s.readFile(ProgressFile)
	if err != nil || data == nil {
		return state, err
	}

	var pf progressFile
	if err := json.Unmarshal(data, &pf); err != nil {
		s.warnCorrupt(ProgressFile, err)
		return state, nil
	}

	for _, u := range pf.VisitedURLs {
		state.MarkVisited(u)
	}
	for _, u := range pf.FailedURLs {
		state.MarkFailed(u)
	}
	if pf.LastSaved != nil {
		state.LastSaved = parseTimestamp(*pf.LastSaved)
	}
	return state, nil
}

// SaveProgress writes the progress file with URLs in sorted order.
func (s *Store) SaveProgress(ctx context.Context, state *rriharvest.ProgressState) error {
	pf := progressFile{
		VisitedURLs: state.Visited(),
		FailedURLs:  state.Failed(),
	}
	if !state.LastSaved.IsZero() {
		ts := state.LastSaved.Format(time.RFC3339)
		pf.LastSaved = &ts
	}
	return s.writeJSON(ProgressFile, pf)
}

// LoadArticles reads the articles file.
func (s *Store) LoadArticles(ctx context.Context) (*rriharvest.ArticleIndex, error) {
	index := rriharvest.NewArticleIndex()

	data, err := s.readFile(ArticlesFile)
	if err != nil || data == nil {
		return index, err
	}

	if err := json.Unmarshal(data, index); err != nil {
		s.warnCorrupt(ArticlesFile, err)
		return rriharvest.NewArticleIndex(), nil
	}
	return index, nil
}

// SaveArticles writes the articles file in insertion order.
func (s *Store) SaveArticles(ctx context.Context, index *rriharvest.ArticleIndex) error {
	return s.writeJSON(ArticlesFile, index)
}

// readFile returns nil data when the file does not exist.
func (s *Store) readFile(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, rriharvest.Errorf(rriharvest.EINVALID, "cannot read %s: %v", name, err)
	}
	return data, nil
}

func (s *Store) writeJSON(name string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.dir, name), buf.Bytes())
}

func (s *Store) warnCorrupt(name string, err error) {
	s.logger.Warn("ignoring unreadable state file",
		"file", filepath.Join(s.dir, name),
		"err", err,
	)
}

// writeFileAtomic replaces path with data so readers see either the old
// or the new content, never a partial write.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// parseTimestamp accepts RFC 3339 and the zone-less ISO timestamps written
// by earlier tools. Unparseable values yield the zero time.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}
