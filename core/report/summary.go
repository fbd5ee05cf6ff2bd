package report

// Aggregate computes the class summary of records.
// No records is the "no data yet" state: a zero average and no grade counts.
func Aggregate(records []StudentRecord) ClassSummary {
	summary := EmptySummary()
	if len(records) == 0 {
		return summary
	}

	averages := make([]float64, 0, len(records))
	for _, rec := range records {
		averages = append(averages, rec.Average)
		summary.GradeCounts[rec.Grade]++
	}
	summary.ClassAverage = mean(averages)
	return summary
}
