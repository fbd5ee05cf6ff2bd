package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Dharshini-7v/report-card/core"
	"github.com/Dharshini-7v/report-card/core/user"
)

const (
	tokenContextKey = "userToken"
	ownerContextKey = "owner"
)

// Claims represents the authorization claims transmitted via a JWT.
// The subject is the username, which owns the reports.
type Claims struct {
	jwt.StandardClaims
	Dept string `json:"dept,omitempty"`
}

// newJWTConfig returns the JWT auth middleware config.
func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

func GetUserClaims(conf *core.Config, usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.Username,
			ExpiresAt: now.Add(conf.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Dept: usr.Dept,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// contextOwner returns the owner set by ownerMiddleware.
func contextOwner(ctx echo.Context) string {
	owner, _ := ctx.Get(ownerContextKey).(string)
	return owner
}
