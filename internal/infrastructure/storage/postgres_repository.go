package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"FolderTranslator/internal/domain"
	"FolderTranslator/internal/ports"
)

const historyTable = "processed_documents"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository appends processed-file audit rows to Postgres.
type PostgresRepository struct {
	db    *sql.DB
	table string
}

var _ ports.HistoryRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, table: historyTable}
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the history table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schemaSQL(r.table)); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveProcessed inserts one audit row. History is append-only: the same
// file name processed twice yields two rows.
func (r *PostgresRepository) SaveProcessed(ctx context.Context, doc domain.ProcessedDocument) error {
	if r.db == nil {
		return nil
	}

	query, args, err := insertSQL(r.table, doc)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert processed: %w", err)
	}
	return nil
}

func insertSQL(table string, doc domain.ProcessedDocument) (string, []interface{}, error) {
	return psql.Insert(pq.QuoteIdentifier(table)).
		Columns(
			"file_name",
			"source_path",
			"archived_path",
			"kind",
			"source_language",
			"target_language",
			"status",
			"error",
			"processed_at",
		).
		Values(
			doc.FileName,
			doc.SourcePath,
			nullable(doc.ArchivedPath),
			string(doc.Kind),
			nullable(doc.SourceLanguage),
			nullable(doc.TargetLanguage),
			string(doc.Status),
			nullable(doc.Error),
			doc.ProcessedAt,
		).
		ToSql()
}

func schemaSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id              BIGSERIAL PRIMARY KEY,
    file_name       TEXT NOT NULL,
    source_path     TEXT NOT NULL,
    archived_path   TEXT,
    kind            TEXT NOT NULL,
    source_language TEXT,
    target_language TEXT,
    status          TEXT NOT NULL,
    error           TEXT,
    processed_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`, pq.QuoteIdentifier(table))
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
