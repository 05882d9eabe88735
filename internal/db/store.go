package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Open opens the SQLite database at path and brings its schema up to date.
func Open(path string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	if err := Migrate(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

// FeatureRecord is a stored feature file.
type FeatureRecord struct {
	ID   int64
	URI  string
	Kind string
	Name string
}

// NodeRecord is a stored test tree node.
type NodeRecord struct {
	FeatureURI string
	UniqueID   string
	Type       string
	Name       string
	Line       int
	Source     string
}

// SaveFeature inserts or updates a feature and replaces its nodes. created
// reports whether the feature was not stored before.
func SaveFeature(sqlDB *sql.DB, f FeatureRecord, nodes []NodeRecord) (created bool, err error) {
	tx, err := sqlDB.Begin()
	if err != nil {
		return false, fmt.Errorf("beginning save of %s: %w", f.URI, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var id int64
	err = tx.QueryRow(`SELECT id FROM features WHERE uri = ?`, f.URI).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.Exec(`INSERT INTO features (uri, kind, name) VALUES (?, ?, ?)`, f.URI, f.Kind, f.Name)
		if err != nil {
			return false, fmt.Errorf("inserting %s: %w", f.URI, err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return false, fmt.Errorf("reading id of %s: %w", f.URI, err)
		}
		created = true
	case err != nil:
		return false, fmt.Errorf("querying %s: %w", f.URI, err)
	default:
		_, err = tx.Exec(`UPDATE features SET kind = ?, name = ?, updated_at = datetime('now') WHERE id = ?`, f.Kind, f.Name, id)
		if err != nil {
			return false, fmt.Errorf("updating %s: %w", f.URI, err)
		}
	}

	if _, err = tx.Exec(`DELETE FROM nodes WHERE feature_id = ?`, id); err != nil {
		return false, fmt.Errorf("clearing nodes of %s: %w", f.URI, err)
	}
	for _, n := range nodes {
		_, err = tx.Exec(
			`INSERT INTO nodes (feature_id, unique_id, type, name, line, source) VALUES (?, ?, ?, ?, ?, ?)`,
			id, n.UniqueID, n.Type, n.Name, n.Line, n.Source,
		)
		if err != nil {
			return false, fmt.Errorf("inserting node %s: %w", n.UniqueID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("committing %s: %w", f.URI, err)
	}
	return created, nil
}

// PruneFeatures deletes stored features whose URI is not in keep and returns
// how many were removed.
func PruneFeatures(sqlDB *sql.DB, keep []string) (int64, error) {
	query := `DELETE FROM features`
	args := make([]any, len(keep))
	if len(keep) > 0 {
		query += ` WHERE uri NOT IN (?` + strings.Repeat(", ?", len(keep)-1) + `)`
		for i, uri := range keep {
			args[i] = uri
		}
	}
	res, err := sqlDB.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("pruning features: %w", err)
	}
	return res.RowsAffected()
}

// ListNodes returns every stored node ordered by feature URI and line.
func ListNodes(sqlDB *sql.DB) ([]NodeRecord, error) {
	rows, err := sqlDB.Query(`
		SELECT f.uri, n.unique_id, n.type, n.name, n.line, n.source
		FROM nodes n
		JOIN features f ON n.feature_id = f.id
		ORDER BY f.uri, n.line, length(n.unique_id)
	`)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var out []NodeRecord
	for rows.Next() {
		var n NodeRecord
		if err := rows.Scan(&n.FeatureURI, &n.UniqueID, &n.Type, &n.Name, &n.Line, &n.Source); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

// FindNode looks a node up by its unique id.
func FindNode(sqlDB *sql.DB, uniqueID string) (NodeRecord, error) {
	var n NodeRecord
	err := sqlDB.QueryRow(`
		SELECT f.uri, n.unique_id, n.type, n.name, n.line, n.source
		FROM nodes n
		JOIN features f ON n.feature_id = f.id
		WHERE n.unique_id = ?
	`, uniqueID).Scan(&n.FeatureURI, &n.UniqueID, &n.Type, &n.Name, &n.Line, &n.Source)
	return n, err
}
