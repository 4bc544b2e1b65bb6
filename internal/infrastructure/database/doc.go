// Package database provides SQLite database connectivity for Media Stack
// Core.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Connection pooling and lifecycle management
//
// Schema ownership lives with the repositories: each repository creates its
// own tables with CREATE TABLE IF NOT EXISTS on construction. The schema is
// small enough that a migration framework would outweigh it.
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
package database
