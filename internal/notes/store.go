// Package notes persists notes and their tags in a SQLite database.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

var ErrNotFound = errors.New("note not found")

// Note is a stored note with its tags.
type Note struct {
	ID        int64
	Title     string
	Content   string
	Summary   string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TagCount is a tag name with the number of notes carrying it.
type TagCount struct {
	Name  string
	Notes int
}

const schema = `
CREATE TABLE IF NOT EXISTS notes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL DEFAULT '',
	summary    TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tags (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE COLLATE NOCASE
);
CREATE TABLE IF NOT EXISTS note_tags (
	note_id INTEGER NOT NULL,
	tag_id  INTEGER NOT NULL,
	PRIMARY KEY (note_id, tag_id)
);
CREATE INDEX IF NOT EXISTS note_tags_tag ON note_tags(tag_id);
CREATE INDEX IF NOT EXISTS notes_updated ON notes(updated_at);
`

// Store is a note database. Methods are safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps :memory: intact.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts the note when ID is zero and updates it otherwise. The note's
// tag set is replaced. It returns the persisted ID.
func (s *Store) Save(ctx context.Context, n Note) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := s.now().UnixMilli()
	id := n.ID
	if id == 0 {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO notes (title, content, summary, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			n.Title, n.Content, n.Summary, now, now)
		if err != nil {
			return 0, fmt.Errorf("insert note: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, err
		}
	} else {
		res, err := tx.ExecContext(ctx,
			"UPDATE notes SET title = ?, content = ?, summary = ?, updated_at = ? WHERE id = ?",
			n.Title, n.Content, n.Summary, now, id)
		if err != nil {
			return 0, fmt.Errorf("update note %d: %w", id, err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return 0, fmt.Errorf("update note %d: %w", id, ErrNotFound)
		}
	}

	if err := replaceTags(ctx, tx, id, NormalizeTags(n.Tags)); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func replaceTags(ctx context.Context, tx *sql.Tx, noteID int64, tags []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM note_tags WHERE note_id = ?", noteID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	for _, name := range tags {
		if _, err := tx.ExecContext(ctx, "INSERT INTO tags (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name); err != nil {
			return fmt.Errorf("insert tag %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO note_tags (note_id, tag_id) SELECT ?, id FROM tags WHERE name = ?",
			noteID, name); err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}
	return nil
}

// Get returns the note with the given ID.
func (s *Store) Get(ctx context.Context, id int64) (Note, error) {
	notes, err := s.query(ctx, "SELECT id, title, content, summary, created_at, updated_at FROM notes WHERE id = ?", id)
	if err != nil {
		return Note{}, err
	}
	if len(notes) == 0 {
		return Note{}, fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	return notes[0], nil
}

// List returns every note, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Note, error) {
	return s.query(ctx, "SELECT id, title, content, summary, created_at, updated_at FROM notes ORDER BY updated_at DESC, id DESC")
}

// Search returns notes whose title or content contains query.
func (s *Store) Search(ctx context.Context, query string) ([]Note, error) {
	pattern := "%" + escapeLike(query) + "%"
	return s.query(ctx,
		`SELECT id, title, content, summary, created_at, updated_at FROM notes
		 WHERE title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\'
		 ORDER BY updated_at DESC, id DESC`, pattern, pattern)
}

// ByTag returns notes carrying tag, most recently updated first.
func (s *Store) ByTag(ctx context.Context, tag string) ([]Note, error) {
	return s.query(ctx,
		`SELECT n.id, n.title, n.content, n.summary, n.created_at, n.updated_at FROM notes n
		 JOIN note_tags nt ON nt.note_id = n.id
		 JOIN tags t ON t.id = nt.tag_id
		 WHERE t.name = ?
		 ORDER BY n.updated_at DESC, n.id DESC`, strings.TrimSpace(tag))
}

// Tags lists tag names with their note counts, alphabetically.
func (s *Store) Tags(ctx context.Context) ([]TagCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.name, COUNT(nt.note_id) FROM tags t
		 LEFT JOIN note_tags nt ON nt.tag_id = t.id
		 GROUP BY t.id ORDER BY t.name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Name, &tc.Notes); err != nil {
			return nil, err
		}
		tags = append(tags, tc)
	}
	return tags, rows.Err()
}

// Delete removes a note and its tag links.
func (s *Store) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM note_tags WHERE note_id = ?", id); err != nil {
		return fmt.Errorf("delete tags of note %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

func (s *Store) query(ctx context.Context, query string, args ...interface{}) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		var created, updated int64
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.Summary, &created, &updated); err != nil {
			return nil, err
		}
		n.CreatedAt = time.UnixMilli(created)
		n.UpdatedAt = time.UnixMilli(updated)
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range notes {
		tags, err := s.noteTags(ctx, notes[i].ID)
		if err != nil {
			return nil, err
		}
		notes[i].Tags = tags
	}
	return notes, nil
}

func (s *Store) noteTags(ctx context.Context, id int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.name FROM tags t JOIN note_tags nt ON nt.tag_id = t.id
		 WHERE nt.note_id = ? ORDER BY t.name COLLATE NOCASE`, id)
	if err != nil {
		return nil, fmt.Errorf("load tags of note %d: %w", id, err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// NormalizeTags trims names, drops empty ones and removes case-insensitive
// duplicates, keeping the first spelling.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		name := strings.TrimSpace(tag)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// FindTitles ranks notes by fuzzy match of query against their titles, best
// match first. Notes that do not match are dropped.
func FindTitles(query string, notes []Note) []Note {
	titles := make([]string, len(notes))
	for i, n := range notes {
		titles[i] = n.Title
	}
	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Stable(ranks)

	out := make([]Note, 0, len(ranks))
	for _, rank := range ranks {
		out = append(out, notes[rank.OriginalIndex])
	}
	return out
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
