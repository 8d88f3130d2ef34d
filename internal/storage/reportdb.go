package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/scrim-network/pubstats/internal/export"
	"github.com/scrim-network/pubstats/internal/reference"
	"github.com/scrim-network/pubstats/internal/report"
	"github.com/scrim-network/pubstats/internal/roster"
)

// ReportDBName is the default file name of the report database.
const ReportDBName = "pubstats.db"

// ErrNoRun is returned when a report database holds no run.
var ErrNoRun = errors.New("no run recorded")

const reportSchema = `
	CREATE TABLE runs (
		run_id TEXT PRIMARY KEY,
		generated_at TEXT NOT NULL,
		tags_json TEXT,
		records_read INTEGER NOT NULL,
		publications INTEGER NOT NULL,
		authors INTEGER NOT NULL
	);

	CREATE TABLE authors (
		identity TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		kind TEXT NOT NULL,
		first TEXT,
		last TEXT NOT NULL,
		role INTEGER,
		institution TEXT,
		discipline TEXT,
		department TEXT,
		cuca INTEGER NOT NULL
	);

	CREATE TABLE publications (
		pub_index INTEGER PRIMARY KEY,
		title TEXT,
		year TEXT,
		venue TEXT,
		doi TEXT,
		n_authors INTEGER NOT NULL,
		matched_authors INTEGER NOT NULL,
		citation TEXT NOT NULL
	);

	CREATE TABLE memberships (
		identity TEXT NOT NULL REFERENCES authors(identity),
		statistic TEXT NOT NULL,
		pub_index INTEGER NOT NULL REFERENCES publications(pub_index),
		PRIMARY KEY (identity, statistic, pub_index)
	);

	CREATE VIRTUAL TABLE publications_fts USING fts5(
		pub_index UNINDEXED,
		title,
		authors_text
	);
`

// WriteReportDB writes the report to a fresh SQLite database at path,
// replacing any existing file.
func WriteReportDB(path string, rep *report.Report) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing old database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(reportSchema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	if err := insertReport(tx, rep); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing report: %w", err)
	}
	return db.Close()
}

func insertReport(tx *sql.Tx, rep *report.Report) error {
	tagsJSON, err := json.Marshal(rep.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?)`,
		rep.RunID.String(), rep.Generated.UTC().Format(time.RFC3339),
		string(tagsJSON), rep.Read, len(rep.Publications), rep.Authors.Len()); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for i, pub := range rep.Publications {
		venue := pub.Journal
		if venue == "" {
			venue = pub.JournalFull
		}
		if _, err := tx.Exec(`INSERT INTO publications VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i, pub.Title, nullableStringValue(pub.Published.Year.String()),
			nullableStringValue(venue), nullableStringValue(pub.DOI),
			len(pub.Authors), pub.MatchedAuthors,
			export.Citation(pub, rep.Translation, nil)); err != nil {
			return fmt.Errorf("inserting publication %d: %w", i+1, err)
		}
		if _, err := tx.Exec(`INSERT INTO publications_fts (pub_index, title, authors_text) VALUES (?, ?, ?)`,
			i, pub.Title, formatAuthorsText(pub)); err != nil {
			return fmt.Errorf("indexing publication %d: %w", i+1, err)
		}
	}

	memberStmt, err := tx.Prepare(`INSERT OR IGNORE INTO memberships VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing membership insert: %w", err)
	}
	defer memberStmt.Close()

	for pos, rec := range rep.Authors.Records() {
		var role sql.NullInt64
		if rec.Role != nil {
			role = sql.NullInt64{Int64: int64(*rec.Role), Valid: true}
		}
		if _, err := tx.Exec(`INSERT INTO authors VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(rec.Identity), pos, rec.Kind.String(),
			nullableStringValue(rec.First), rec.Last, role,
			nullableStringValue(rec.Institution), nullableStringValue(rec.Discipline),
			nullableStringValue(rec.Department), rec.CrossUnitScore); err != nil {
			return fmt.Errorf("inserting author %s: %w", rec.Identity, err)
		}
		for _, name := range rec.Statistics() {
			for _, idx := range rec.Pubs(name) {
				if _, err := memberStmt.Exec(string(rec.Identity), name, idx); err != nil {
					return fmt.Errorf("inserting %s membership for %s: %w", name, rec.Identity, err)
				}
			}
		}
	}
	return nil
}

func formatAuthorsText(pub reference.Publication) string {
	names := make([]string, len(pub.Authors))
	for i, a := range pub.Authors {
		names[i] = a.FullName()
	}
	return strings.Join(names, ", ")
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ReportDB is a read handle on a database written by WriteReportDB.
type ReportDB struct {
	db *sql.DB
}

// OpenReportDB opens an existing report database.
func OpenReportDB(path string) (*ReportDB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &ReportDB{db: db}, nil
}

// Close closes the database connection.
func (d *ReportDB) Close() error {
	return d.db.Close()
}

// RunID returns the ID of the recorded run.
func (d *ReportDB) RunID() (string, error) {
	var id string
	err := d.db.QueryRow(`SELECT run_id FROM runs LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoRun
	}
	if err != nil {
		return "", fmt.Errorf("reading run: %w", err)
	}
	return id, nil
}

// StatisticCount returns how many publications an author has in a
// statistic list.
func (d *ReportDB) StatisticCount(id roster.Identity, statistic string) (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM memberships WHERE identity = ? AND statistic = ?`,
		string(id), statistic).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s for %s: %w", statistic, id, err)
	}
	return n, nil
}

// CrossUnitScore returns an author's cross-unit co-authorship score.
func (d *ReportDB) CrossUnitScore(id roster.Identity) (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT cuca FROM authors WHERE identity = ?`, string(id)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("reading cuca for %s: %w", id, err)
	}
	return n, nil
}

// Citation returns the stored citation of the publication at a 0-based
// index.
func (d *ReportDB) Citation(index int) (string, error) {
	var c string
	err := d.db.QueryRow(`SELECT citation FROM publications WHERE pub_index = ?`, index).Scan(&c)
	if err != nil {
		return "", fmt.Errorf("reading publication %d: %w", index+1, err)
	}
	return c, nil
}

// SearchPublications returns the 0-based indices of publications whose
// title or author list matches query, in index order.
func (d *ReportDB) SearchPublications(query string, limit int) ([]int, error) {
	rows, err := d.db.Query(`
		SELECT pub_index FROM publications_fts
		WHERE publications_fts MATCH ?
		ORDER BY CAST(pub_index AS INTEGER)
		LIMIT ?`, prepareFTSQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("searching publications: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		out = append(out, idx)
	}
	return out, rows.Err()
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}
	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}
	return query
}
