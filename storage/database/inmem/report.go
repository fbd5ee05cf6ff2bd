package inmemdb

import (
	"context"

	"github.com/Dharshini-7v/report-card/core/report"
)

type reportRepository struct {
	db *reportTable
}

var _ report.Repository = (*reportRepository)(nil)

func NewReportRepository(db *DB) report.Repository {
	return &reportRepository{db: db.report}
}

func (repo *reportRepository) SaveReport(_ context.Context, rep report.Report) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored := cloneReport(rep)
	repo.db.table[rep.Owner] = &stored
	return nil
}

func (repo *reportRepository) GetReport(_ context.Context, owner string) (report.Report, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rep, ok := repo.db.table[owner]; ok {
		return cloneReport(*rep), nil
	}
	return report.Report{}, report.ErrNotFound
}

func (repo *reportRepository) DeleteReport(_ context.Context, owner string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, owner)
	return nil
}

// cloneReport copies the records and grade counts so callers never share them with the table.
func cloneReport(rep report.Report) report.Report {
	if rep.Students != nil {
		students := make([]report.StudentRecord, len(rep.Students))
		for i, rec := range rep.Students {
			if rec.Marks != nil {
				marks := make([]float64, len(rec.Marks))
				copy(marks, rec.Marks)
				rec.Marks = marks
			}
			students[i] = rec
		}
		rep.Students = students
	}
	if rep.Summary.GradeCounts != nil {
		counts := make(map[report.Grade]int, len(rep.Summary.GradeCounts))
		for g, n := range rep.Summary.GradeCounts {
			counts[g] = n
		}
		rep.Summary.GradeCounts = counts
	}
	return rep
}
