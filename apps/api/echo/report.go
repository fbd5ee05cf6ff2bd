package echoapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/Dharshini-7v/report-card/core"
	"github.com/Dharshini-7v/report-card/core/report"
	sheetsvc "github.com/Dharshini-7v/report-card/services/sheet"
)

const (
	fieldStudents = "students"
	fieldFile     = "file"

	xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	errInvalidJSON    = errors.New("request body must be a JSON object")
	errInvalidBody    = errors.New("invalid request body")
	errStudentsList   = errors.New("students must be a list")
	errStudentsNeeded = errors.New("students is required")
	errFileNeeded     = errors.New("a .xlsx file is required")
)

type reportApi struct {
	svc      *report.Service
	validate *validator.Validate
}

func registerReportAPI(e *echo.Echo, auth []echo.MiddlewareFunc, svc *report.Service, validate *validator.Validate) {
	api := reportApi{
		svc:      svc,
		validate: validate,
	}

	// authed endpoints
	e.POST("/processReport", api.process, auth...)
	e.POST("/import", api.importSheet, auth...)
	e.GET("/summary", api.summary, auth...)
	e.GET("/students", api.students, auth...)
	e.DELETE("/students", api.reset, auth...)
	e.GET("/students/export", api.exportSheet, auth...)
}

func invalidRequest(fld string, err error) error {
	return core.NewValidationError(err, core.FieldError{Field: fld, Error: err.Error()})
}

// checkShape rejects a body whose students member is missing, not a list or empty.
func checkShape(body []byte) error {
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return core.NewValidationError(errInvalidJSON)
	}
	students := gjson.GetBytes(body, fieldStudents)
	switch {
	case !students.Exists() || students.Type == gjson.Null:
		return invalidRequest(fieldStudents, errStudentsNeeded)
	case !students.IsArray():
		return invalidRequest(fieldStudents, errStudentsList)
	case len(students.Array()) == 0:
		return invalidRequest(fieldStudents, report.ErrNoStudents)
	}
	return nil
}

// Handlers

func (api *reportApi) process(ctx echo.Context) error {
	body, err := ioutil.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading request body")
	}
	if err = checkShape(body); err != nil {
		return err
	}

	var data report.SubmitRequest
	if err = json.Unmarshal(body, &data); err != nil {
		return core.NewValidationError(errInvalidBody)
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	return api.submit(ctx, data.Students)
}

func (api *reportApi) importSheet(ctx echo.Context) error {
	fh, err := ctx.FormFile(fieldFile)
	if err != nil {
		return invalidRequest(fieldFile, errFileNeeded)
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer f.Close()

	subs, err := sheetsvc.ReadSubmissions(f)
	if err != nil {
		return invalidRequest(fieldFile, errors.Cause(err))
	}
	return api.submit(ctx, subs)
}

func (api *reportApi) submit(ctx echo.Context, subs []report.Submission) error {
	rep, err := api.svc.Submit(ctx.Request().Context(), contextOwner(ctx), subs)
	if err != nil {
		return errors.Wrap(err, "submitting report")
	}
	return ctx.JSON(http.StatusOK, newReportResponse(rep))
}

func (api *reportApi) summary(ctx echo.Context) error {
	summary, err := api.svc.Summary(ctx.Request().Context(), contextOwner(ctx))
	if err != nil {
		return errors.Wrap(err, "getting summary")
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *reportApi) students(ctx echo.Context) error {
	students, err := api.svc.Students(ctx.Request().Context(), contextOwner(ctx))
	if err != nil {
		return errors.Wrap(err, "getting students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *reportApi) reset(ctx echo.Context) error {
	if err := api.svc.Reset(ctx.Request().Context(), contextOwner(ctx)); err != nil {
		return errors.Wrap(err, "resetting report")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *reportApi) exportSheet(ctx echo.Context) error {
	rep, err := api.svc.Report(ctx.Request().Context(), contextOwner(ctx))
	if err != nil {
		if errors.Cause(err) == report.ErrNotFound {
			return errReportNotFound
		}
		return errors.Wrap(err, "getting report")
	}

	var buf bytes.Buffer
	if err = sheetsvc.WriteReport(&buf, rep); err != nil {
		return errors.Wrap(err, "writing spreadsheet")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", rep.Owner+"-report.xlsx"))
	return ctx.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
