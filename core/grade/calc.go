package grade

// Course is a single graded course. Name is for display only.
type Course struct {
	Name    string  `json:"name"`
	Credits float64 `json:"credits" validate:"gte=0,lte=100"`
	Grade   string  `json:"grade" validate:"omitempty,grade"`
}

// Counted reports whether the course takes part in averages:
// it needs positive credits and a grade from the scale.
func (c Course) Counted() bool {
	return c.Credits > 0 && Recognized(c.Grade)
}

// Semester is an ordered list of courses with its last computed SGPA.
// SGPA is only refreshed by an explicit recompute.
type Semester struct {
	Courses []Course `json:"courses" validate:"dive"`
	SGPA    float64  `json:"sgpa"`
}

// weightedSum accumulates the grade points and credits of the counted courses.
func weightedSum(courses []Course) (points, credits float64) {
	for _, c := range courses {
		if !c.Counted() {
			continue
		}
		points += float64(PointsForGrade(c.Grade)) * c.Credits
		credits += c.Credits
	}
	return points, credits
}

// SemesterAverage returns the credit-weighted grade point average (SGPA) of courses.
// Courses without credits or without a grade on the scale are left out; 0 is returned when none is left.
func SemesterAverage(courses []Course) float64 {
	points, credits := weightedSum(courses)
	if credits <= 0 {
		return 0
	}
	return points / credits
}

// CumulativeAverage returns the CGPA: the credit-weighted average of every counted course of every semester.
// Courses are pooled, so a heavy semester weighs more than a light one.
func CumulativeAverage(semesters []Semester) float64 {
	var points, credits float64
	for _, sem := range semesters {
		p, c := weightedSum(sem.Courses)
		points += p
		credits += c
	}
	if credits <= 0 {
		return 0
	}
	return points / credits
}

// FixedAverage returns the credit-weighted average of numeric scores (already grade points) against
// a parallel credit schedule. Every position counts. Mismatched lengths or a zero credit total yield 0.
func FixedAverage(scores, credits []float64) float64 {
	if len(scores) != len(credits) {
		return 0
	}
	var points, total float64
	for i := range credits {
		points += scores[i] * credits[i]
		total += credits[i]
	}
	if total <= 0 {
		return 0
	}
	return points / total
}
