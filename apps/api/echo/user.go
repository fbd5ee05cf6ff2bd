package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Dharshini-7v/report-card/core"
	"github.com/Dharshini-7v/report-card/core/user"
)

type userApi struct {
	svc      *user.Service
	conf     *core.Config
	validate *validator.Validate
}

func registerUserAPI(e *echo.Echo, svc *user.Service, conf *core.Config, validate *validator.Validate) {
	api := userApi{
		svc:      svc,
		conf:     conf,
		validate: validate,
	}

	// un-authed endpoints
	e.POST("/signup", api.signup)
	e.POST("/login", api.login)
}

// Handlers

func (api *userApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Signup(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "signing up")
	}
	return ctx.JSON(http.StatusCreated, UserResponse{Status: statusSuccess, Username: usr.Username})
}

func (api *userApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrInvalidCredentials {
			return errInvalidCredentials
		}
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(api.conf, GetUserClaims(api.conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Status: statusSuccess, Username: usr.Username, Token: token})
}
