package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Dharshini-7v/report-card/core"
)

var NowFunc = time.Now // mockable

// DefaultOwner receives the reports submitted without a user context.
const DefaultOwner = "guest"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func cleanOwner(owner string) string {
	if owner = core.CleanString(owner, true /* lower */); owner == "" {
		return DefaultOwner
	}
	return owner
}

// Submit processes a batch of submissions and replaces the owner's report with the result.
// An empty batch is rejected as a whole and nothing is stored.
func (svc *Service) Submit(ctx context.Context, owner string, subs []Submission) (Report, error) {
	records, err := Process(subs)
	if err != nil {
		if err == ErrNoStudents {
			return Report{}, core.NewValidationError(err, core.FieldError{Field: "students", Error: err.Error()})
		}
		return Report{}, errors.Wrap(err, "processing submissions")
	}

	rep := Report{
		ID:        uuid.New().String(),
		Owner:     cleanOwner(owner),
		Students:  records,
		Summary:   Aggregate(records),
		CreatedAt: NowFunc().UTC(),
	}
	if err = svc.repo.SaveReport(ctx, rep); err != nil {
		return Report{}, errors.Wrap(err, "saving report")
	}
	return rep, nil
}

// Report returns the owner's current report; ErrNotFound if there is none.
func (svc *Service) Report(ctx context.Context, owner string) (Report, error) {
	return svc.repo.GetReport(ctx, cleanOwner(owner))
}

// Students returns the owner's current records, empty when nothing was submitted yet.
func (svc *Service) Students(ctx context.Context, owner string) ([]StudentRecord, error) {
	rep, err := svc.repo.GetReport(ctx, cleanOwner(owner))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return []StudentRecord{}, nil
		}
		return nil, errors.Wrap(err, "getting report")
	}
	if rep.Students == nil {
		return []StudentRecord{}, nil
	}
	return rep.Students, nil
}

// Summary returns the owner's current class summary, zeroed when nothing was submitted yet.
func (svc *Service) Summary(ctx context.Context, owner string) (ClassSummary, error) {
	rep, err := svc.repo.GetReport(ctx, cleanOwner(owner))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return EmptySummary(), nil
		}
		return ClassSummary{}, errors.Wrap(err, "getting report")
	}
	if rep.Summary.GradeCounts == nil {
		rep.Summary.GradeCounts = make(map[Grade]int)
	}
	return rep.Summary, nil
}

// Reset drops the owner's report.
func (svc *Service) Reset(ctx context.Context, owner string) error {
	return svc.repo.DeleteReport(ctx, cleanOwner(owner))
}
