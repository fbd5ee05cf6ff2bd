package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Dharshini-7v/report-card/core"
)

// ownerMiddleware keys the request to the token's subject. Must run after the JWT middleware.
func ownerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		owner := core.CleanString(claims.Subject, true /* lower */)
		if owner == "" {
			return errUnauthorized
		}
		ctx.Set(ownerContextKey, owner)
		return next(ctx)
	}
}
