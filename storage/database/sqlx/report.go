package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/Dharshini-7v/report-card/core/report"
)

type reportRow struct {
	Owner     string         `db:"owner"`
	ID        string         `db:"id"`
	Students  types.JSONText `db:"students"`
	Summary   types.JSONText `db:"summary"`
	CreatedAt time.Time      `db:"created_at"`
}

type reportRepository struct {
	db *sqlx.DB
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db *sqlx.DB) report.Repository {
	return &reportRepository{db: db}
}

func (repo *reportRepository) SaveReport(ctx context.Context, rep report.Report) error {
	const q = `
	INSERT INTO reports (owner, id, students, summary, created_at)
	VALUES (:owner, :id, :students, :summary, :created_at)
	ON CONFLICT (owner) DO UPDATE
	SET id = EXCLUDED.id, students = EXCLUDED.students, summary = EXCLUDED.summary, created_at = EXCLUDED.created_at`

	students, err := json.Marshal(rep.Students)
	if err != nil {
		return errors.Wrap(err, "marshalling students")
	}
	summary, err := json.Marshal(rep.Summary)
	if err != nil {
		return errors.Wrap(err, "marshalling summary")
	}

	row := reportRow{
		Owner:     rep.Owner,
		ID:        rep.ID,
		Students:  students,
		Summary:   summary,
		CreatedAt: rep.CreatedAt.UTC(),
	}
	if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
		return errors.Wrap(err, "upserting report")
	}
	return nil
}

func (repo *reportRepository) GetReport(ctx context.Context, owner string) (report.Report, error) {
	const q = `SELECT owner, id, students, summary, created_at FROM reports WHERE owner = $1`

	var row reportRow
	if err := repo.db.GetContext(ctx, &row, q, owner); err != nil {
		return report.Report{}, trapNoRowsErr(err, report.ErrNotFound, "selecting report")
	}

	rep := report.Report{
		ID:        row.ID,
		Owner:     row.Owner,
		CreatedAt: row.CreatedAt.UTC(),
	}
	if err := row.Students.Unmarshal(&rep.Students); err != nil {
		return report.Report{}, errors.Wrap(err, "unmarshalling students")
	}
	if err := row.Summary.Unmarshal(&rep.Summary); err != nil {
		return report.Report{}, errors.Wrap(err, "unmarshalling summary")
	}
	return rep, nil
}

func (repo *reportRepository) DeleteReport(ctx context.Context, owner string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM reports WHERE owner = $1`, owner); err != nil {
		return errors.Wrap(err, "deleting report")
	}
	return nil
}
