package database

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite" // driver "sqlite"
)

// NewDBConnection abre o SQLite local que espelha a planilha em desenvolvimento.
func NewDBConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite aceita um escritor por vez; ":memory:" também é por conexão.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
