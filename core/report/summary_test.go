package report

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_empty(t *testing.T) {
	for _, records := range [][]StudentRecord{nil, {}} {
		got := Aggregate(records)
		assert.Equal(t, 0.0, got.ClassAverage)
		assert.NotNil(t, got.GradeCounts)
		assert.Empty(t, got.GradeCounts)
	}

	data, err := json.Marshal(Aggregate(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"classAverage": 0, "gradeCounts": {}}`, string(data))
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name        string
		records     []StudentRecord
		wantAverage float64
		wantCounts  map[Grade]int
	}{
		{
			name:        "single",
			records:     []StudentRecord{{Average: 72, Grade: GradeB}},
			wantAverage: 72,
			wantCounts:  map[Grade]int{GradeB: 1},
		},
		{
			name:        "mixed",
			records:     []StudentRecord{{Average: 90, Grade: GradeAPlus}, {Average: 40, Grade: GradeF}},
			wantAverage: 65,
			wantCounts:  map[Grade]int{GradeAPlus: 1, GradeF: 1},
		},
		{
			name: "repeated grades",
			records: []StudentRecord{
				{Average: 81, Grade: GradeA}, {Average: 85, Grade: GradeA},
				{Average: 61, Grade: GradeC}, {Average: 89, Grade: GradeA},
			},
			wantAverage: 79,
			wantCounts:  map[Grade]int{GradeA: 3, GradeC: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.records)
			assert.InDelta(t, tt.wantAverage, got.ClassAverage, 1e-9)
			assert.Equal(t, tt.wantCounts, got.GradeCounts)

			var sum int
			for _, n := range got.GradeCounts {
				sum += n
			}
			assert.Equal(t, len(tt.records), sum)

			// aggregating is idempotent
			assert.Equal(t, got, Aggregate(tt.records))
		})
	}
}

func TestProcessThenAggregate(t *testing.T) {
	records, err := Process([]Submission{
		{Name: "A", Marks: []interface{}{90.0, 90.0, 90.0}},
		{Name: "B", Marks: []interface{}{50.0, 40.0, 30.0}},
	})
	require.NoError(t, err)

	summary := Aggregate(records)
	assert.InDelta(t, 65.0, summary.ClassAverage, 1e-9)
	assert.Equal(t, map[Grade]int{GradeAPlus: 1, GradeF: 1}, summary.GradeCounts)
}

func TestAggregate_hugeAverages(t *testing.T) {
	records := []StudentRecord{{Average: 1e308, Grade: GradeAPlus}, {Average: 1e308, Grade: GradeAPlus}}

	got := Aggregate(records)
	assert.False(t, math.IsInf(got.ClassAverage, 0))
	assert.InEpsilon(t, 1e308, got.ClassAverage, 1e-12)
	assert.Equal(t, map[Grade]int{GradeAPlus: 2}, got.GradeCounts)

	_, err := json.Marshal(got)
	assert.NoError(t, err)
}
