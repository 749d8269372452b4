// Package repository is the PostgreSQL side of filevault.
//
// [Files] implements files.Repository with pgx. Listing order comes from the
// seq identity column, so pages stay stable while new records arrive.
// Malformed ids never reach the database and are reported as not found.
//
// The schema is embedded and applied with [Migrate] (goose).
package repository
