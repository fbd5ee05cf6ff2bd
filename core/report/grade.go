package report

// Grade is a letter grade derived from a student's average.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeF     Grade = "F"
)

// Grades lists every grade from best to worst.
var Grades = []Grade{GradeAPlus, GradeA, GradeB, GradeC, GradeF}

// gradeThresholds are inclusive lower bounds, checked in order.
var gradeThresholds = []struct {
	min   float64
	grade Grade
}{
	{90, GradeAPlus},
	{80, GradeA},
	{70, GradeB},
	{60, GradeC},
}

// Classify maps an average to its letter grade. Anything below 60 (NaN included) is an F.
func Classify(average float64) Grade {
	for _, th := range gradeThresholds {
		if average >= th.min {
			return th.grade
		}
	}
	return GradeF
}

// Remark is the comment attached to a StudentRecord.
type Remark string

const (
	RemarkGood             Remark = "Good"
	RemarkNeedsImprovement Remark = "Needs Improvement"
)

// RemarkFor depends on the grade alone: only failing students need improvement.
func RemarkFor(g Grade) Remark {
	if g == GradeF {
		return RemarkNeedsImprovement
	}
	return RemarkGood
}
