package storage

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/goserg/matchrating/internal/migrate"
)

// Open connects to the sqlite file and applies embedded migrations.
// ":memory:" opens a private in-memory database.
func Open(file string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", buildSource(file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	err = db.Ping()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	err = migrate.Up(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func buildSource(file string) string {
	if file == ":memory:" {
		return "file::memory:?_foreign_keys=on"
	}
	if strings.HasPrefix(file, "file:") {
		return file
	}
	return "file:" + file + "?cache=shared&_foreign_keys=on"
}
