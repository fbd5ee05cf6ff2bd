package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	echoapi "github.com/Dharshini-7v/report-card/apps/api/echo"
	"github.com/Dharshini-7v/report-card/core/report"
	"github.com/Dharshini-7v/report-card/tests"
)

const endToEndBody = `{"students": [{"name": "A", "marks": [90, 90, 90]}, {"name": "B", "marks": [50, 40, 30]}]}`

const endToEndResponse = `{
	"students": [
		{"name": "A", "marks": [90, 90, 90], "average": 90, "grade": "A+", "bestSubject": "Subject 1", "remark": "Good"},
		{"name": "B", "marks": [50, 40, 30], "average": 40, "grade": "F", "bestSubject": "Subject 1", "remark": "Needs Improvement"}
	],
	"summary": {"classAverage": 65, "gradeCounts": {"A+": 1, "F": 1}}
}`

const zeroSummary = `{"classAverage": 0, "gradeCounts": {}}`

func Test_reportApi_authRequired(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{name: "summary", path: "/summary"},
		{name: "students", path: "/students"},
		{name: "reset", method: http.MethodDelete, path: "/students"},
		{name: "export", path: "/students/export"},
		{name: "process", method: http.MethodPost, path: "/processReport", body: []byte(endToEndBody)},
		{name: "import", method: http.MethodPost, path: "/import"},
	}
	for i := range tests {
		tests[i].wantCode = http.StatusUnauthorized
		tests[i].wantData = marchallObj(t, errMissingToken)
	}
	runHTTPTests(t, app, tests)

	runHTTPTests(t, app, []httpTest{{
		name: "bad token", path: "/summary", token: "not.a.jwt", wantCode: http.StatusUnauthorized,
		wantData: marchallObj(t, httpErr{Status: "error", Message: "invalid or expired jwt"}),
	}})
}

func Test_reportApi_process(t *testing.T) {
	app := setup(t)
	token := getToken(t, testutil.CreateUser(t, usrRepo, "faculty", "CSE", "1234"))

	noStudents := marchallObj(t, httpErr{Status: "error", Message: "no students to process", Fields: map[string]string{
		"students": "no students to process",
	}})

	tests := []httpTest{
		{name: "nothing submitted: summary", path: "/summary", wantData: []byte(zeroSummary)},
		{name: "nothing submitted: students", path: "/students", wantData: []byte(`[]`)},
		{name: "empty students", method: http.MethodPost, path: "/processReport", body: []byte(`{"students": []}`), wantCode: http.StatusBadRequest, wantData: noStudents},
		{
			name: "missing students", method: http.MethodPost, path: "/processReport", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Status: "error", Message: "students is required", Fields: map[string]string{"students": "students is required"}}),
		},
		{
			name: "null students", method: http.MethodPost, path: "/processReport", body: []byte(`{"students": null}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Status: "error", Message: "students is required", Fields: map[string]string{"students": "students is required"}}),
		},
		{
			name: "students not a list", method: http.MethodPost, path: "/processReport", body: []byte(`{"students": {"name": "A"}}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Status: "error", Message: "students must be a list", Fields: map[string]string{"students": "students must be a list"}}),
		},
		{
			name: "not an object", method: http.MethodPost, path: "/processReport", body: []byte(`[1, 2]`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Status: "error", Message: "request body must be a JSON object"}),
		},
		{
			name: "malformed json", method: http.MethodPost, path: "/processReport", body: []byte(`{"students": [`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Status: "error", Message: "request body must be a JSON object"}),
		},
		{
			name: "student not an object", method: http.MethodPost, path: "/processReport", body: []byte(`{"students": ["A"]}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Status: "error", Message: "invalid request body"}),
		},
		{
			name: "blank name", method: http.MethodPost, path: "/processReport",
			body:     []byte(`{"students": [{"name": "A", "marks": [1]}, {"name": "  ", "marks": [2]}]}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Status: "error", Message: "invalid request", Fields: map[string]string{
				"students[1].name": "this field cannot be blank",
			}}),
		},
		// rejected batches store nothing
		{name: "still nothing submitted", path: "/students", wantData: []byte(`[]`)},
		{name: "end to end", method: http.MethodPost, path: "/processReport", body: []byte(endToEndBody), wantData: []byte(endToEndResponse)},
		{
			name: "summary after submit", path: "/summary",
			wantData: []byte(`{"classAverage": 65, "gradeCounts": {"A+": 1, "F": 1}}`),
		},
		{
			name: "students after submit", path: "/students/", // trailing slash removed
			wantData: []byte(`[
				{"name": "A", "marks": [90, 90, 90], "average": 90, "grade": "A+", "bestSubject": "Subject 1", "remark": "Good"},
				{"name": "B", "marks": [50, 40, 30], "average": 40, "grade": "F", "bestSubject": "Subject 1", "remark": "Needs Improvement"}
			]`),
		},
		// a rejected batch keeps the previous report
		{name: "empty students after submit", method: http.MethodPost, path: "/processReport", body: []byte(`{"students": []}`), wantCode: http.StatusBadRequest, wantData: noStudents},
		{name: "summary kept", path: "/summary", wantData: []byte(`{"classAverage": 65, "gradeCounts": {"A+": 1, "F": 1}}`)},
	}
	for i := range tests {
		tests[i].token = token
	}
	runHTTPTests(t, app, tests)
}

func Test_reportApi_hugeMarks(t *testing.T) {
	app := setup(t)
	token := getToken(t, testutil.CreateUser(t, usrRepo, "faculty", "CSE", "1234"))

	body := []byte(`{"students": [{"name": "A", "marks": [1e308, 1e308]}]}`)
	req, rec := newAuthRequest(http.MethodPost, "/processReport", token, body)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp echoapi.ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Students, 1)
	assert.InEpsilon(t, 1e308, resp.Students[0].Average, 1e-12)
	assert.Equal(t, report.GradeAPlus, resp.Students[0].Grade)
	assert.InEpsilon(t, 1e308, resp.Summary.ClassAverage, 1e-12)

	// the stored report stays readable
	for _, path := range []string{"/students", "/summary"} {
		req, rec = newAuthRequest(http.MethodGet, path, token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func Test_reportApi_coercion(t *testing.T) {
	app := setup(t)
	token := getToken(t, testutil.CreateUser(t, usrRepo, "faculty", "CSE", "1234"))

	body := []byte(`{"students": [
		{"name": "C", "marks": ["abc", 80, null]},
		{"name": "T", "marks": [70, 70, 60]},
		{"name": "S", "marks": ["95", " 85 ", true]},
		{"name": "N"}
	]}`)
	req, rec := newAuthRequest(http.MethodPost, "/processReport", token, body)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp echoapi.ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Students, 4)

	c := resp.Students[0]
	assert.Equal(t, []float64{0, 80, 0}, c.Marks)
	assert.InDelta(t, 26.6667, c.Average, 0.001)
	assert.Equal(t, report.GradeF, c.Grade)
	assert.Equal(t, report.RemarkNeedsImprovement, c.Remark)
	assert.Equal(t, "Subject 2", c.BestSubject)

	assert.Equal(t, "Subject 1", resp.Students[1].BestSubject)

	assert.Equal(t, []float64{95, 85, 0}, resp.Students[2].Marks)
	assert.Equal(t, report.GradeC, resp.Students[2].Grade)

	n := resp.Students[3]
	assert.Equal(t, float64(0), n.Average)
	assert.Equal(t, "", n.BestSubject)
	assert.Equal(t, report.GradeF, n.Grade)

	total := 0
	for _, count := range resp.Summary.GradeCounts {
		total += count
	}
	assert.Equal(t, len(resp.Students), total)
}

func Test_reportApi_ownersAreIsolated(t *testing.T) {
	app := setup(t)
	alice := getToken(t, testutil.CreateUser(t, usrRepo, "alice", "CSE", "1234"))
	bob := getToken(t, testutil.CreateUser(t, usrRepo, "bob", "ECE", "1234"))

	runHTTPTests(t, app, []httpTest{
		{name: "alice submits", method: http.MethodPost, path: "/processReport", token: alice, body: []byte(endToEndBody), wantData: []byte(endToEndResponse)},
		{name: "bob sees nothing", path: "/students", token: bob, wantData: []byte(`[]`)},
		{name: "bob's summary is zeroed", path: "/summary", token: bob, wantData: []byte(zeroSummary)},
		{name: "alice still has hers", path: "/summary", token: alice, wantData: []byte(`{"classAverage": 65, "gradeCounts": {"A+": 1, "F": 1}}`)},
	})
}

func Test_reportApi_reset(t *testing.T) {
	app := setup(t)
	token := getToken(t, testutil.CreateUser(t, usrRepo, "faculty", "CSE", "1234"))

	req, rec := newAuthRequest(http.MethodPost, "/processReport", token, []byte(endToEndBody))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	for i := 0; i < 2; i++ { // idempotent
		req, rec = newAuthRequest(http.MethodDelete, "/students", token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	runHTTPTests(t, app, []httpTest{
		{name: "students", path: "/students", token: token, wantData: []byte(`[]`)},
		{name: "summary", path: "/summary", token: token, wantData: []byte(zeroSummary)},
	})
}

func newMarksSheet(t *testing.T) *bytes.Buffer {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Name", "Maths", "Physics", "Chemistry"},
		{"A", 90, 90, 90},
		{"B", 50, 40, 30},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func Test_reportApi_importExport(t *testing.T) {
	app := setup(t)
	token := getToken(t, testutil.CreateUser(t, usrRepo, "faculty", "CSE", "1234"))

	t.Run("export before any submission", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/students/export", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Status: "error", Message: "no report to export"}),
		}, rec)
	})

	t.Run("import without file", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/import", token, []byte(`{}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Status: "error", Message: "a .xlsx file is required", Fields: map[string]string{
				"file": "a .xlsx file is required",
			}}),
		}, rec)
	})

	t.Run("import not a spreadsheet", func(t *testing.T) {
		req, rec := newUploadRequest(t, "/import", token, strings.NewReader("name,marks"))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("import", func(t *testing.T) {
		req, rec := newUploadRequest(t, "/import", token, newMarksSheet(t))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(endToEndResponse)}, rec)
	})

	t.Run("export", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/students/export", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, `attachment; filename="faculty-report.xlsx"`, rec.Header().Get("Content-Disposition"))

		f, err := excelize.OpenReader(rec.Body)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		rows, err := f.GetRows("Students")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"A", "90", "90", "90", "90", "A+", "Subject 1", "Good"}, rows[1])
	})
}
