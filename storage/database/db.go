package database

import (
	"database/sql"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/Dharshini-7v/report-card/core"
	appfs "github.com/Dharshini-7v/report-card/fs"
)

var (
	MigrationsDir = "migrations"
	pingAttempts  = 10
	pingBackoff   = 100 * time.Millisecond
)

func init() {
	goose.SetBaseFS(appfs.FS)
}

// URL builds the connection string of the configured database.
func URL(conf *core.Config) string {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.Database.Address(),
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Open connects to the configured database and waits for it to accept connections.
func Open(conf *core.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open(conf.Database.Engine, URL(conf))
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits pingBackoff longer between each attempt.
func ping(db *sql.DB) error {
	var err error
	for attempts := 1; attempts <= pingAttempts; attempts++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempts) * pingBackoff)
	}
	return errors.Wrap(err, "DB ping timeout")
}

// Migrate brings the schema up to date.
func Migrate(db *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	if err := goose.Up(db, MigrationsDir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
