package user

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/Dharshini-7v/report-card/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound           = errors.New("user not found")
	ErrUsernameExists     = errors.New("a user with this username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		// CreateUser returns ErrUsernameExists when the username is taken.
		CreateUser(ctx context.Context, usr User) (User, error)
		// GetUser returns ErrNotFound when there is no such user.
		GetUser(ctx context.Context, username string) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Signup creates an account. A taken username is reported as a field error.
func (svc *Service) Signup(ctx context.Context, nu NewUser) (User, error) {
	now := NowFunc().UTC()
	usr := User{
		Username:  core.CleanString(nu.Username, true /* lower */),
		Dept:      nu.Dept,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, pkgerrors.Wrap(err, "setting password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if pkgerrors.Cause(err) == ErrUsernameExists {
			return User{}, core.NewValidationError(ErrUsernameExists, core.FieldError{Field: "username", Error: ErrUsernameExists.Error()})
		}
		return User{}, pkgerrors.Wrap(err, "creating user")
	}
	return usr, nil
}

// Authenticate returns ErrInvalidCredentials for unknown users and wrong passwords alike.
func (svc *Service) Authenticate(ctx context.Context, username, pwd string) (User, error) {
	usr, err := svc.GetByUsername(ctx, username)
	if err != nil {
		if pkgerrors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, pkgerrors.Wrap(err, "finding user by username")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

func (svc *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return svc.repo.GetUser(ctx, core.CleanString(username, true /* lower */))
}

// UpdateOrCreate sets the password (and dept, when given) of username, creating the account if needed.
func (svc *Service) UpdateOrCreate(ctx context.Context, username, dept, pwd string) (User, error) {
	usr, err := svc.GetByUsername(ctx, username)
	if err != nil {
		if pkgerrors.Cause(err) != ErrNotFound {
			return User{}, pkgerrors.Wrap(err, "finding user by username")
		}
		return svc.Signup(ctx, NewUser{Username: username, Password: pwd, Dept: dept})
	}

	if dept = core.CleanString(dept); dept != "" {
		usr.Dept = dept
	}
	if err = usr.SetPassword(pwd); err != nil {
		return User{}, pkgerrors.Wrap(err, "setting password")
	}
	usr.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

// SetPassword replaces the password of an existing account.
func (svc *Service) SetPassword(ctx context.Context, username, pwd string) (User, error) {
	usr, err := svc.GetByUsername(ctx, username)
	if err != nil {
		return User{}, err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return User{}, pkgerrors.Wrap(err, "setting password")
	}
	usr.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}
