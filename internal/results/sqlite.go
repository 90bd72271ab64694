package results

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sqlite mirror of the score table. The TSV remains the
// primary deliverable; the mirror exists for querying finished and
// in-progress runs with ordinary SQL.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the scores database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			word TEXT PRIMARY KEY,
			aff_prop REAL NOT NULL,
			kmeans_5 REAL NOT NULL,
			kmeans_7 REAL NOT NULL,
			averaging REAL NOT NULL,
			aff_prop_clusters INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_scores_aff_prop ON scores(aff_prop DESC);
	`
	_, err := db.Exec(schema)
	return err
}

// UpsertRows writes every row, replacing earlier values for the same
// word, inside one transaction.
func (d *DB) UpsertRows(rows []Row) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO scores (word, aff_prop, kmeans_5, kmeans_7, averaging, aff_prop_clusters)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(word) DO UPDATE SET
			aff_prop = excluded.aff_prop,
			kmeans_5 = excluded.kmeans_5,
			kmeans_7 = excluded.kmeans_7,
			averaging = excluded.averaging,
			aff_prop_clusters = excluded.aff_prop_clusters
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.Word, r.AffProp, r.KMeans5, r.KMeans7, r.Averaging, r.AffPropClusters); err != nil {
			return fmt.Errorf("upserting %q: %w", r.Word, err)
		}
	}

	return tx.Commit()
}

// TopRows returns up to limit rows ordered by affinity propagation
// divergence descending. limit <= 0 returns all rows.
func (d *DB) TopRows(limit int) ([]Row, error) {
	query := `
		SELECT word, aff_prop, kmeans_5, kmeans_7, averaging, aff_prop_clusters
		FROM scores
		ORDER BY aff_prop DESC, word ASC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying scores: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Word, &r.AffProp, &r.KMeans5, &r.KMeans7, &r.Averaging, &r.AffPropClusters); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
