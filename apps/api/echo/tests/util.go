package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/Dharshini-7v/report-card/apps/api/echo"
	"github.com/Dharshini-7v/report-card/core"
	"github.com/Dharshini-7v/report-card/core/report"
	"github.com/Dharshini-7v/report-card/core/user"
	logsvc "github.com/Dharshini-7v/report-card/services/logger"
	inmemdb "github.com/Dharshini-7v/report-card/storage/database/inmem"
)

var (
	testConf = &core.Config{
		Env:                "TEST",
		TestMode:           true,
		AppName:            "Report Card",
		SecretKey:          "secret",
		JWTExpirationDelta: time.Hour,
		Server:             core.ServerConfig{AllowOrigins: []string{"*"}},
	}

	usrRepo user.Repository
	logBuf  bytes.Buffer

	errMissingToken = httpErr{Status: "error", Message: "missing or malformed jwt"}
)

// setup returns a Server over fresh in-memory stores. reportRepo replaces the in-memory report store when given.
func setup(t *testing.T, reportRepo ...report.Repository) *echoapi.Server {
	mem := inmemdb.Open()
	usrRepo = inmemdb.NewUserRepository(mem)
	var repRepo report.Repository = inmemdb.NewReportRepository(mem)
	if len(reportRepo) > 0 {
		repRepo = reportRepo[0]
	}

	logBuf.Reset()
	logger := logsvc.NewRollbarLogger(log.New(&logBuf, "API : ", 0), testConf)
	logger.Enable(false)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	report.InitValidators(validate, translator)

	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       testConf,
		Logger:     logger,
		UserSvc:    user.NewService(usrRepo),
		ReportSvc:  report.NewService(repRepo),
		Validate:   validate,
		Translator: translator,
	})
}

type httpErr struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// newUploadRequest posts content as the multipart "file" field.
func newUploadRequest(t *testing.T, path, token string, content io.Reader) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "marks.xlsx")
	if err != nil {
		t.Fatalf("CreateFormFile() failed: %v", err)
	}
	if _, err = io.Copy(part, content); err != nil {
		t.Fatalf("io.Copy() failed: %v", err)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("multipart.Close() failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req, httptest.NewRecorder()
}

func getToken(t *testing.T, usr user.User) string {
	token, err := echoapi.GenerateToken(testConf, echoapi.GetUserClaims(testConf, usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app http.Handler, tests []httpTest) {
	for _, tt := range tests {
		if tt.method == "" {
			tt.method = http.MethodGet
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
