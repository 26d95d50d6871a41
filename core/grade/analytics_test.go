package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	semesters := []Semester{
		{Courses: []Course{{Credits: 4, Grade: A}, {Credits: 2, Grade: "b+"}, {Credits: 0, Grade: A}}, SGPA: 8.67},
		{Courses: []Course{{Credits: 3, Grade: A}, {Credits: 3, Grade: "??"}, {Credits: -1, Grade: F}}, SGPA: 8},
	}
	sum := Analyze(semesters)

	assert.Equal(t, 2, sum.Semesters)
	assert.Equal(t, 6, sum.Courses)
	assert.Equal(t, 12.0, sum.Credits)
	assert.InDelta(t, (36.0+16+27)/9, sum.CGPA, eps)
	assert.Equal(t, "excellent", sum.Band)
	assert.Equal(t, []GradeCount{
		{Symbol: APlus}, {Symbol: A, Count: 3}, {Symbol: BPlus, Count: 1}, {Symbol: B},
		{Symbol: CPlus}, {Symbol: C}, {Symbol: D}, {Symbol: F, Count: 1},
	}, sum.Distribution)
	assert.Equal(t, TrendDeclining, sum.Trend.Direction)
}

func TestAnalyze_trend(t *testing.T) {
	sems := func(sgpas ...float64) []Semester {
		out := make([]Semester, 0, len(sgpas))
		for _, s := range sgpas {
			out = append(out, Semester{SGPA: s})
		}
		return out
	}
	tests := []struct {
		name      string
		semesters []Semester
		want      string
	}{
		{name: "none", want: TrendStable},
		{name: "one", semesters: sems(9), want: TrendStable},
		{name: "improving", semesters: sems(5, 7, 7.31), want: TrendImproving},
		{name: "declining", semesters: sems(8, 7.6), want: TrendDeclining},
		{name: "within margin", semesters: sems(8, 8.2), want: TrendStable},
		{name: "only the last two count", semesters: sems(2, 9, 9), want: TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Analyze(tt.semesters).Trend.Direction)
		})
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		gpa  float64
		want string
	}{
		{10, "outstanding"}, {9, "outstanding"}, {8.99, "excellent"}, {7, "very good"},
		{6.5, "good"}, {5, "average"}, {4, "pass"}, {3.99, "fail"}, {0, "fail"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Band(tt.gpa), "Band(%v)", tt.gpa)
	}
}
