// Package database owns the library's single store connection.
//
// It is the schema and sample-data collaborator for the agent: it opens the
// SQLite file (mattn/go-sqlite3 by default, modernc.org/sqlite when
// configured), migrates the books, students and borrowings tables through
// gorm, and seeds them from the embedded fixtures/seed.yaml.
//
// The agent never writes through this package. Read views live in
// internal/store, which is built on Database.SQL:
//
//	db, err := database.NewDatabase(cfg.Database)
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	s := store.New(db.SQL)
package database
