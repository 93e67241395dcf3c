package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"path"

	"github.com/pressly/goose/v3"
)

// Latest row per version wins, so a rolled-back migration no longer counts.
const appliedVersionSQL = `
SELECT COALESCE(max(version_id), 0)
FROM (
	SELECT DISTINCT ON (version_id) version_id, is_applied
	FROM goose_db_version
	ORDER BY version_id, id DESC
) latest
WHERE is_applied`

// SchemaInspector compares the schema version recorded by goose with the
// newest migration shipped in the binary.
type SchemaInspector struct {
	db         Querier
	migrations fs.FS
}

// NewSchemaInspector creates a SchemaInspector over db and the embedded
// migration files.
func NewSchemaInspector(db Querier, migrations fs.FS) *SchemaInspector {
	return &SchemaInspector{db: db, migrations: migrations}
}

// AppliedVersion returns the highest migration version currently applied.
func (s *SchemaInspector) AppliedVersion(ctx context.Context) (int64, error) {
	var v int64
	if err := s.db.QueryRow(ctx, appliedVersionSQL).Scan(&v); err != nil {
		return 0, fmt.Errorf("read applied schema version: %w", err)
	}
	return v, nil
}

// LatestVersion returns the highest version among the migration files.
func (s *SchemaInspector) LatestVersion() (int64, error) {
	names, err := fs.Glob(s.migrations, "*.sql")
	if err != nil {
		return 0, fmt.Errorf("list migrations: %w", err)
	}
	if len(names) == 0 {
		return 0, fmt.Errorf("list migrations: no migration files")
	}

	var latest int64
	for _, name := range names {
		v, err := goose.NumericComponent(path.Base(name))
		if err != nil {
			return 0, fmt.Errorf("migration %s: %w", name, err)
		}
		latest = max(latest, v)
	}
	return latest, nil
}
