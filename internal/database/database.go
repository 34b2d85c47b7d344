package database

import (
	"database/sql"

	"github.com/jamo/media-gallery/internal/manifest"
	"github.com/jamo/media-gallery/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

const takenLayout = "2006-01-02 15:04:05"

// DB is a catalog of loaded gallery items. It lives in memory only and is
// rebuilt from the manifests on every run.
type DB struct {
	conn *sql.DB
}

func Open() (*DB, error) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	// every pooled connection would get its own empty in-memory database
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS galleries (
		name TEXT PRIMARY KEY,
		title TEXT,
		position INTEGER,
		load_error TEXT
	);

	CREATE TABLE IF NOT EXISTS items (
		gallery TEXT NOT NULL REFERENCES galleries(name),
		position INTEGER NOT NULL,
		file TEXT NOT NULL,
		kind TEXT NOT NULL,
		src TEXT NOT NULL,
		taken TEXT,
		year INTEGER,
		PRIMARY KEY (gallery, position)
	);

	CREATE INDEX IF NOT EXISTS idx_items_year ON items(gallery, year);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// StoreGallery records a gallery and replaces its items
func (db *DB) StoreGallery(cfg models.GalleryConfig, items []models.MediaItem, loadErr error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var errText sql.NullString
	if loadErr != nil {
		errText = sql.NullString{String: loadErr.Error(), Valid: true}
	}

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO galleries (name, title, position, load_error)
		VALUES (?, ?, (SELECT COUNT(*) FROM galleries WHERE name != ?), ?)
	`, cfg.Name, cfg.Title, cfg.Name, errText); err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM items WHERE gallery = ?", cfg.Name); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO items (gallery, position, file, kind, src, taken, year)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, item := range items {
		var taken sql.NullString
		var year sql.NullInt64
		if item.DateTaken != nil {
			ts := manifest.Timestamp(item.DateTaken)
			taken = sql.NullString{String: ts.Format(takenLayout), Valid: true}
			year = sql.NullInt64{Int64: int64(ts.Year()), Valid: true}
		}
		if _, err := stmt.Exec(cfg.Name, i, item.File, string(item.Kind), item.Src, taken, year); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Summaries returns per-gallery counts in the order galleries were stored
func (db *DB) Summaries() ([]models.GallerySummary, error) {
	rows, err := db.conn.Query(`
		SELECT g.name,
			COUNT(i.file),
			COALESCE(SUM(i.kind = 'image'), 0),
			COALESCE(SUM(i.kind = 'video'), 0),
			COALESCE(SUM(i.file IS NOT NULL AND i.taken IS NULL), 0),
			MAX(i.taken),
			MIN(i.taken)
		FROM galleries g
		LEFT JOIN items i ON i.gallery = g.name
		GROUP BY g.name
		ORDER BY g.position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.GallerySummary
	for rows.Next() {
		var s models.GallerySummary
		var newest, oldest sql.NullString
		if err := rows.Scan(&s.Gallery, &s.Total, &s.Images, &s.Videos, &s.Undated, &newest, &oldest); err != nil {
			return nil, err
		}
		s.Newest = newest.String
		s.Oldest = oldest.String
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// YearCounts returns how many dated items of a gallery were taken each year, newest first
func (db *DB) YearCounts(gallery string) ([]models.YearCount, error) {
	rows, err := db.conn.Query(`
		SELECT year, COUNT(*)
		FROM items
		WHERE gallery = ? AND year IS NOT NULL
		GROUP BY year
		ORDER BY year DESC
	`, gallery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.YearCount
	for rows.Next() {
		var c models.YearCount
		if err := rows.Scan(&c.Year, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// LoadErrors maps gallery names to the error that kept them empty
func (db *DB) LoadErrors() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT name, load_error FROM galleries WHERE load_error IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, msg string
		if err := rows.Scan(&name, &msg); err != nil {
			return nil, err
		}
		out[name] = msg
	}

	return out, rows.Err()
}
