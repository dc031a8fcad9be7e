// Package journal keeps a SQLite ledger of successful exports: which file was
// written, in which format, how many rows and a checksum of the content.
package journal

// CreateExportsTableSQL creates the exports table.
const CreateExportsTableSQL = `
CREATE TABLE IF NOT EXISTS exports (
    export_id TEXT PRIMARY KEY,
    target_path TEXT NOT NULL,
    source_path TEXT NOT NULL DEFAULT '',
    format TEXT NOT NULL,
    row_count INTEGER NOT NULL,
    size_bytes INTEGER NOT NULL,
    checksum TEXT NOT NULL,
    backup_path TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
)`

// CreateExportsIndexesSQL creates the lookup indexes.
var CreateExportsIndexesSQL = []string{
	`CREATE INDEX IF NOT EXISTS idx_exports_target ON exports(target_path, created_at)`,
}

const insertExportSQL = `
INSERT INTO exports (
    export_id, target_path, source_path, format,
    row_count, size_bytes, checksum, backup_path, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectExportsSQL = `
SELECT export_id, target_path, source_path, format,
       row_count, size_bytes, checksum, backup_path, created_at
FROM exports`
