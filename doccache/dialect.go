package doccache

import "fmt"

// dialect generates the database-specific SQL for one backend. The schema
// itself is shared: one row per IRI, the serialized body next to the
// retrieval metadata, expiry as unix seconds with zero meaning none.
type dialect interface {
	createTableSQL(table string) string
	getSQL(table string) string
	upsertSQL(table string) string
	deleteSQL(table string) string
	purgeSQL(table string) string
	countSQL(table string) string
}

// --- SQLite dialect ---

type sqliteDialect struct{}

func (sqliteDialect) createTableSQL(table string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			iri TEXT NOT NULL,
			final_url TEXT NOT NULL,
			context_url TEXT NOT NULL,
			content_type TEXT NOT NULL,
			body BLOB NOT NULL,
			fetched_at BIGINT NOT NULL,
			expires_at BIGINT NOT NULL,
			PRIMARY KEY(iri)
		) WITHOUT ROWID;
	`, table)
}

func (sqliteDialect) getSQL(table string) string {
	return fmt.Sprintf(`
		SELECT final_url, context_url, content_type, body, fetched_at, expires_at
		FROM %s WHERE iri = ?
	`, table)
}

func (sqliteDialect) upsertSQL(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (iri, final_url, context_url, content_type, body, fetched_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(iri) DO UPDATE SET
			final_url = excluded.final_url,
			context_url = excluded.context_url,
			content_type = excluded.content_type,
			body = excluded.body,
			fetched_at = excluded.fetched_at,
			expires_at = excluded.expires_at
	`, table)
}

func (sqliteDialect) deleteSQL(table string) string {
	return fmt.Sprintf(`DELETE FROM %s WHERE iri = ?`, table)
}

func (sqliteDialect) purgeSQL(table string) string {
	return fmt.Sprintf(`DELETE FROM %s WHERE expires_at > 0 AND expires_at <= ?`, table)
}

func (sqliteDialect) countSQL(table string) string {
	return fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)
}

// --- PostgreSQL dialect ---

type postgresDialect struct{}

func (postgresDialect) createTableSQL(table string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			iri TEXT NOT NULL,
			final_url TEXT NOT NULL,
			context_url TEXT NOT NULL,
			content_type TEXT NOT NULL,
			body BYTEA NOT NULL,
			fetched_at BIGINT NOT NULL,
			expires_at BIGINT NOT NULL,
			PRIMARY KEY(iri)
		);
	`, table)
}

func (postgresDialect) getSQL(table string) string {
	return fmt.Sprintf(`
		SELECT final_url, context_url, content_type, body, fetched_at, expires_at
		FROM %s WHERE iri = $1
	`, table)
}

func (postgresDialect) upsertSQL(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (iri, final_url, context_url, content_type, body, fetched_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (iri) DO UPDATE SET
			final_url = excluded.final_url,
			context_url = excluded.context_url,
			content_type = excluded.content_type,
			body = excluded.body,
			fetched_at = excluded.fetched_at,
			expires_at = excluded.expires_at
	`, table)
}

func (postgresDialect) deleteSQL(table string) string {
	return fmt.Sprintf(`DELETE FROM %s WHERE iri = $1`, table)
}

func (postgresDialect) purgeSQL(table string) string {
	return fmt.Sprintf(`DELETE FROM %s WHERE expires_at > 0 AND expires_at <= $1`, table)
}

func (postgresDialect) countSQL(table string) string {
	return fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)
}
