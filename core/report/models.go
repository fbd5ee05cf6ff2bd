package report

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNoStudents = errors.New("no students to process")
	ErrNotFound   = errors.New("report not found")
)

type (
	// Submission is one student's raw marks, as collected by a form or a spreadsheet.
	// Marks hold whatever the client sent; they are coerced when processed.
	Submission struct {
		Name  string        `json:"name" validate:"notblank"`
		Marks []interface{} `json:"marks"`
	}

	// StudentRecord is the processed result of one Submission.
	StudentRecord struct {
		Name        string    `json:"name"`
		Marks       []float64 `json:"marks"`
		Average     float64   `json:"average"`
		Grade       Grade     `json:"grade"`
		BestSubject string    `json:"bestSubject"`
		Remark      Remark    `json:"remark"`
	}

	// ClassSummary holds the class-wide statistics of a batch of StudentRecords.
	ClassSummary struct {
		ClassAverage float64       `json:"classAverage"`
		GradeCounts  map[Grade]int `json:"gradeCounts"`
	}

	// Report is what gets persisted for an owner on each submission.
	Report struct {
		ID        string          `json:"id"`
		Owner     string          `json:"owner"`
		Students  []StudentRecord `json:"students"`
		Summary   ClassSummary    `json:"summary"`
		CreatedAt time.Time       `json:"created_at"` // UTC
	}

	// Repository stores the latest Report of each owner.
	Repository interface {
		// SaveReport replaces any report previously saved for rep.Owner.
		SaveReport(ctx context.Context, rep Report) error
		// GetReport returns ErrNotFound when owner has never submitted.
		GetReport(ctx context.Context, owner string) (Report, error)
		DeleteReport(ctx context.Context, owner string) error
	}
)

// SubmitRequest is the body of a report submission.
type SubmitRequest struct {
	Students []Submission `json:"students" validate:"required,dive"`
}

// EmptySummary is the summary of an owner without any submission.
func EmptySummary() ClassSummary {
	return ClassSummary{GradeCounts: make(map[Grade]int)}
}
