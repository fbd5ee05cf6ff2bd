package echoapi

import (
	"github.com/Dharshini-7v/report-card/core/report"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type (
	UserResponse struct {
		Status   string `json:"status"`
		Username string `json:"username"`
	}

	LoginResponse struct {
		Status   string `json:"status"`
		Username string `json:"username"`
		Token    string `json:"token"`
	}

	// ReportResponse is returned by every submission: the processed records and their summary.
	ReportResponse struct {
		Students []report.StudentRecord `json:"students"`
		Summary  report.ClassSummary    `json:"summary"`
	}
)

func newReportResponse(rep report.Report) ReportResponse {
	return ReportResponse{Students: rep.Students, Summary: rep.Summary}
}
