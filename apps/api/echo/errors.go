package echoapi

import (
	"fmt"
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Dharshini-7v/report-card/core"
	"github.com/Dharshini-7v/report-card/core/user"
)

var (
	errUnauthorized       = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errInvalidCredentials = echo.NewHTTPError(http.StatusUnauthorized, user.ErrInvalidCredentials.Error())
	errReportNotFound     = echo.NewHTTPError(http.StatusNotFound, "no report to export")

	msgInvalidRequest = "invalid request"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// fieldKey drops the struct name from a validator namespace: "SubmitRequest.students[0].name" -> "students[0].name".
func fieldKey(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var resp ErrorResponse

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				resp.Message = fmt.Sprint(origErr.Message)
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			resp.Message = fmt.Sprint(origErr.Message)
		case validator.ValidationErrors:
			resp.Fields = make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				resp.Fields[fieldKey(vErr.Namespace())] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			resp.Message = msgInvalidRequest
		case *core.ValidationError:
			if origErr.Fields != nil {
				resp.Fields = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					resp.Fields[fErr.Field] = fErr.Error
				}
			}
			code = http.StatusBadRequest
			resp.Message = origErr.Error()
			if resp.Message == "" {
				resp.Message = msgInvalidRequest
			}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			resp.Message = msg

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.Username = claims.Subject
			}
			extras := map[string]interface{}{"request_id": ctx.Response().Header().Get(echo.HeaderXRequestID)}
			if owner := contextOwner(ctx); owner != "" {
				extras["owner"] = owner
			}
			logger.Error(msg, errors.Wrap(err, msg), usr, ctx.Request(), extras)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		resp.Status = statusError
		if ctx.Echo().Debug {
			resp.Message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, resp)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
