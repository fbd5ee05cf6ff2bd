package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dharshini-7v/report-card/core"
)

type User struct {
	Username     string    `json:"username"`
	Dept         string    `json:"dept"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// NewUser contains information needed to sign up.
type NewUser struct {
	Username string `json:"username" validate:"notblank,min=3,max=64,alphanum_"`
	Password string `json:"password" validate:"required"`
	Dept     string `json:"dept" validate:"max=64"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Dept = core.CleanString(nu.Dept)
	return validate.Struct(nu)
}

// Credentials are exchanged for a token on login.
type Credentials struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Username = core.CleanString(c.Username, true /* lower */)
	return validate.Struct(c)
}
