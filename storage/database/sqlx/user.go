package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Dharshini-7v/report-card/core/user"
)

const uniqueViolation = "23505"

var nowFunc = time.Now // mockable

type userRow struct {
	Username     string       `db:"username"`
	Dept         string       `db:"dept"`
	PasswordHash []byte       `db:"password_hash"`
	CreatedAt    sql.NullTime `db:"created_at"`
	UpdatedAt    sql.NullTime `db:"updated_at"`
}

func (r userRow) unmarshal() user.User {
	return user.User{
		Username:     r.Username,
		Dept:         r.Dept,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.Time.UTC(),
		UpdatedAt:    r.UpdatedAt.Time.UTC(),
	}
}

// newUserRow fills zero timestamps with now: the columns are NOT NULL and an explicit NULL skips their default.
func newUserRow(usr user.User, now time.Time) userRow {
	createdAt, updatedAt := usr.CreatedAt, usr.UpdatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return userRow{
		Username:     usr.Username,
		Dept:         usr.Dept,
		PasswordHash: usr.PasswordHash,
		CreatedAt:    sql.NullTime{Time: createdAt.UTC(), Valid: true},
		UpdatedAt:    sql.NullTime{Time: updatedAt.UTC(), Valid: true},
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	const q = `
	INSERT INTO users (username, dept, password_hash, created_at, updated_at)
	VALUES (:username, :dept, :password_hash, :created_at, :updated_at)`

	row := newUserRow(usr, nowFunc())
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return user.User{}, user.ErrUsernameExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return row.unmarshal(), nil
}

func (repo *userRepository) GetUser(ctx context.Context, username string) (user.User, error) {
	const q = `
	SELECT username, dept, password_hash, created_at, updated_at
	FROM users WHERE username = $1`

	var row userRow
	if err := repo.db.GetContext(ctx, &row, q, username); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "selecting user")
	}
	return row.unmarshal(), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	const q = `
	UPDATE users SET dept = $2, password_hash = COALESCE($3, password_hash), updated_at = $4
	WHERE username = $1
	RETURNING username, dept, password_hash, created_at, updated_at`

	var hash interface{} // NULL keeps the current password
	if usr.PasswordHash != nil {
		hash = usr.PasswordHash
	}

	updatedAt := usr.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = nowFunc()
	}

	var row userRow
	err := repo.db.GetContext(ctx, &row, q, usr.Username, usr.Dept, hash, updatedAt.UTC())
	if err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "updating user")
	}
	return row.unmarshal(), nil
}

// trapNoRowsErr maps psql "no rows" err to notFound
func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}
