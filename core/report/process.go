package report

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SubjectLabel names the subject at position i (0-based) of a submission.
func SubjectLabel(i int) string {
	return fmt.Sprintf("Subject %d", i+1)
}

// CoerceMarkOrZero converts a raw mark to a number.
// Finite numbers pass through and numeric strings are parsed;
// anything else (missing, non-numeric, NaN, ±Inf) counts as 0.
// A bad mark never invalidates its submission.
func CoerceMarkOrZero(v interface{}) float64 {
	var f float64
	switch m := v.(type) {
	case float64:
		f = m
	case float32:
		f = float64(m)
	case int:
		f = float64(m)
	case int8:
		f = float64(m)
	case int16:
		f = float64(m)
	case int32:
		f = float64(m)
	case int64:
		f = float64(m)
	case uint:
		f = float64(m)
	case uint8:
		f = float64(m)
	case uint16:
		f = float64(m)
	case uint32:
		f = float64(m)
	case uint64:
		f = float64(m)
	case json.Number:
		n, err := m.Float64()
		if err != nil {
			return 0
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
		if err != nil {
			return 0
		}
		f = n
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Process turns every submission into a StudentRecord, preserving order.
func Process(subs []Submission) ([]StudentRecord, error) {
	if len(subs) == 0 {
		return nil, ErrNoStudents
	}
	records := make([]StudentRecord, 0, len(subs))
	for _, sub := range subs {
		records = append(records, processOne(sub))
	}
	return records, nil
}

func processOne(sub Submission) StudentRecord {
	marks := make([]float64, len(sub.Marks))
	best := -1
	for i, raw := range sub.Marks {
		marks[i] = CoerceMarkOrZero(raw)
		// strictly greater: the first of equal maxima wins
		if best < 0 || marks[i] > marks[best] {
			best = i
		}
	}
	avg := mean(marks)

	var bestSubject string
	if best >= 0 {
		bestSubject = SubjectLabel(best)
	}

	grade := Classify(avg)
	return StudentRecord{
		Name:        sub.Name,
		Marks:       marks,
		Average:     avg,
		Grade:       grade,
		BestSubject: bestSubject,
		Remark:      RemarkFor(grade),
	}
}

// mean of finite values; 0 when there are none.
// The result stays finite even when the plain sum would overflow.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	n := float64(len(values))
	var total float64
	for _, v := range values {
		total += v
	}
	if !math.IsInf(total, 0) {
		return total / n
	}

	var avg float64
	for _, v := range values {
		avg += v / n
	}
	return avg
}
