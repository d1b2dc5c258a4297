package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type Config struct {
	Path        string `split_words:"true" default:"data/nutrition.db"`
	BusyTimeout int    `split_words:"true" default:"5000"`
	PingTimeout int    `split_words:"true" default:"5"`
}

func (c *Config) Open() (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_fk=1", c.Path, c.BusyTimeout)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.PingTimeout)*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (c *Config) MustOpen() *sql.DB {
	db, err := c.Open()
	if err != nil {
		panic(err)
	}

	return db
}
