package grade

import "github.com/trezcool/cgpa/core"

// Letter grades
const (
	APlus = "A+"
	A     = "A"
	BPlus = "B+"
	B     = "B"
	CPlus = "C+"
	C     = "C"
	D     = "D"
	F     = "F"
)

// MaxPoints is the highest grade point on the scale.
const MaxPoints = 10

// Step is one entry of the grading scale.
type Step struct {
	Symbol string `json:"symbol"`
	Points int    `json:"points"`
}

var (
	// Scale lists the letter grades from best to worst.
	Scale = []Step{
		{Symbol: APlus, Points: 10},
		{Symbol: A, Points: 9},
		{Symbol: BPlus, Points: 8},
		{Symbol: B, Points: 7},
		{Symbol: CPlus, Points: 6},
		{Symbol: C, Points: 5},
		{Symbol: D, Points: 4},
		{Symbol: F, Points: 0},
	}

	gradePoints = func() map[string]int {
		m := make(map[string]int, len(Scale))
		for _, s := range Scale {
			m[s.Symbol] = s.Points
		}
		return m
	}()
)

// Symbols returns the letter grades in scale order.
func Symbols() []string {
	symbols := make([]string, 0, len(Scale))
	for _, s := range Scale {
		symbols = append(symbols, s.Symbol)
	}
	return symbols
}

// PointsForGrade converts a letter grade to its grade points.
// Surrounding whitespace and case are ignored; unknown or empty grades yield 0.
func PointsForGrade(grade string) int {
	return gradePoints[normalize(grade)]
}

// Recognized reports whether grade is a symbol of the scale.
func Recognized(grade string) bool {
	_, ok := gradePoints[normalize(grade)]
	return ok
}

func normalize(grade string) string {
	return core.CleanString(grade, true /* upper */)
}
