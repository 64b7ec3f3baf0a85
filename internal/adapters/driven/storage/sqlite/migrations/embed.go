// Package migrations embeds the SQL schema for the caresync SQLite store:
// documents, chunks (with stored embeddings), conversations and messages.
package migrations

import "embed"

// FS holds the migration files, applied in lexical order.
//
//go:embed *.sql
var FS embed.FS
