package sheetsvc

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/Dharshini-7v/report-card/core/report"
)

const (
	StudentsSheet = "Students"
	SummarySheet  = "Summary"
)

var (
	ErrNoSheets = errors.New("spreadsheet does not contain any sheets")
	ErrNoRows   = errors.New("spreadsheet does not contain any student rows")
)

// ReadSubmissions reads the first sheet of an xlsx workbook.
// Row 1 is the header; column A holds the student's name and the following
// header columns hold one subject each. Cells are kept raw and coerced when processed.
func ReadSubmissions(r io.Reader) ([]report.Submission, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening spreadsheet")
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrNoSheets
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.Wrapf(err, "reading rows of %q", sheetName)
	}
	if len(rows) < 2 {
		return nil, ErrNoRows
	}

	subjects := len(rows[0]) - 1
	if subjects < 0 {
		subjects = 0
	}

	subs := make([]report.Submission, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}

		// short rows are padded, columns past the header ignored
		marks := make([]interface{}, subjects)
		for i := range marks {
			if col := i + 1; col < len(row) && strings.TrimSpace(row[col]) != "" {
				marks[i] = row[col]
			}
		}
		subs = append(subs, report.Submission{Name: name, Marks: marks})
	}

	if len(subs) == 0 {
		return nil, ErrNoRows
	}
	return subs, nil
}

// WriteReport writes rep as an xlsx workbook with a Students and a Summary sheet.
func WriteReport(w io.Writer, rep report.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), StudentsSheet); err != nil {
		return errors.Wrap(err, "renaming default sheet")
	}
	if err := writeStudents(f, rep.Students); err != nil {
		return err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return errors.Wrap(err, "creating summary sheet")
	}
	if err := writeSummary(f, rep.Summary); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing spreadsheet")
	}
	return nil
}

func writeStudents(f *excelize.File, records []report.StudentRecord) error {
	var subjects int
	for _, rec := range records {
		if len(rec.Marks) > subjects {
			subjects = len(rec.Marks)
		}
	}

	header := make([]interface{}, 0, subjects+5)
	header = append(header, "Name")
	for i := 0; i < subjects; i++ {
		header = append(header, report.SubjectLabel(i))
	}
	header = append(header, "Average", "Grade", "Best Subject", "Remark")
	if err := setRow(f, StudentsSheet, 1, header); err != nil {
		return err
	}

	for i, rec := range records {
		row := make([]interface{}, 0, len(header))
		row = append(row, rec.Name)
		for j := 0; j < subjects; j++ {
			if j < len(rec.Marks) {
				row = append(row, rec.Marks[j])
			} else {
				row = append(row, nil)
			}
		}
		row = append(row, rec.Average, string(rec.Grade), rec.BestSubject, string(rec.Remark))
		if err := setRow(f, StudentsSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, summary report.ClassSummary) error {
	if err := setRow(f, SummarySheet, 1, []interface{}{"Class Average", summary.ClassAverage}); err != nil {
		return err
	}
	for i, g := range report.Grades {
		if err := setRow(f, SummarySheet, i+2, []interface{}{string(g), summary.GradeCounts[g]}); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(err, "computing cell name")
	}
	if err = f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrapf(err, "writing row %d of %q", row, sheet)
	}
	return nil
}
