package inmemdb

import (
	"context"

	"github.com/Dharshini-7v/report-card/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[usr.Username]; ok {
		return user.User{}, user.ErrUsernameExists
	}
	repo.db.table[usr.Username] = &usr
	return usr, nil
}

func (repo *userRepository) GetUser(_ context.Context, username string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.table[username]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	origUsr, ok := repo.db.table[usr.Username]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	// only save set fields
	if usr.PasswordHash != nil {
		origUsr.PasswordHash = usr.PasswordHash
	}
	origUsr.Dept = usr.Dept
	origUsr.UpdatedAt = usr.UpdatedAt
	return *origUsr, nil
}
