package sheetsvc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Dharshini-7v/report-card/core/report"
)

// newWorkbook builds an xlsx whose first sheet holds cells, keyed by cell name.
func newWorkbook(t *testing.T, cells map[string]interface{}) *bytes.Buffer {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for cell, val := range cells {
		require.NoError(t, f.SetCellValue(sheet, cell, val))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadSubmissions(t *testing.T) {
	buf := newWorkbook(t, map[string]interface{}{
		"A1": "Name", "B1": "Maths", "C1": "Physics", "D1": "Chemistry",
		"A2": "Asha", "B2": 95, "C2": 90, "D2": 88,
		"A3": " Ravi ", "B3": 40, "D3": "abc",
		"B4": 70, "C4": 70, // no name
		"A5": "Meena", "B5": 65, "E5": 100, // short row + column past the header
	})

	subs, err := ReadSubmissions(buf)
	require.NoError(t, err)
	assert.Equal(t, []report.Submission{
		{Name: "Asha", Marks: []interface{}{"95", "90", "88"}},
		{Name: "Ravi", Marks: []interface{}{"40", nil, "abc"}},
		{Name: "Meena", Marks: []interface{}{"65", nil, nil}},
	}, subs)

	records, err := report.Process(subs)
	require.NoError(t, err)
	assert.Equal(t, report.GradeAPlus, records[0].Grade)
	assert.Equal(t, []float64{40, 0, 0}, records[1].Marks)
}

func TestReadSubmissions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cells   map[string]interface{}
		wantErr error
	}{
		{name: "header only", cells: map[string]interface{}{"A1": "Name", "B1": "Maths"}, wantErr: ErrNoRows},
		{name: "blank names only", cells: map[string]interface{}{"A1": "Name", "B2": 90, "A3": "   "}, wantErr: ErrNoRows},
		{name: "empty sheet", cells: map[string]interface{}{}, wantErr: ErrNoRows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSubmissions(newWorkbook(t, tt.cells))
			assert.Equal(t, tt.wantErr, err)
		})
	}

	t.Run("not a spreadsheet", func(t *testing.T) {
		_, err := ReadSubmissions(strings.NewReader("name,marks\nAsha,90\n"))
		assert.Error(t, err)
	})
}

func TestWriteReport(t *testing.T) {
	records, err := report.Process([]report.Submission{
		{Name: "Asha", Marks: []interface{}{95.0, 90.0, 88.0}},
		{Name: "Ravi", Marks: []interface{}{40.0}},
	})
	require.NoError(t, err)
	rep := report.Report{Owner: "faculty", Students: records, Summary: report.Aggregate(records)}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, rep))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{StudentsSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(StudentsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Subject 1", "Subject 2", "Subject 3", "Average", "Grade", "Best Subject", "Remark"}, rows[0])
	assert.Equal(t, []string{"Asha", "95", "90", "88", "91", "A+", "Subject 1", "Good"}, rows[1])
	assert.Equal(t, "Ravi", rows[2][0])
	assert.Equal(t, []string{"F", "Subject 1", "Needs Improvement"}, rows[2][5:])

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 1+len(report.Grades))
	assert.Equal(t, "Class Average", summary[0][0])
	assert.Equal(t, []string{"A+", "1"}, summary[1])
	assert.Equal(t, []string{"A", "0"}, summary[2])
	assert.Equal(t, []string{"F", "1"}, summary[5])
}
