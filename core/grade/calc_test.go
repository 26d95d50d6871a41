package grade

import (
	"math"
	"testing"
)

const eps = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestPointsForGrade(t *testing.T) {
	tests := []struct {
		grade string
		want  int
	}{
		{grade: "A+", want: 10},
		{grade: "A", want: 9},
		{grade: "B+", want: 8},
		{grade: "B", want: 7},
		{grade: "C+", want: 6},
		{grade: "C", want: 5},
		{grade: "D", want: 4},
		{grade: "F", want: 0},
		{grade: " a+ ", want: 10},
		{grade: "b+", want: 8},
		{grade: "", want: 0},
		{grade: "E", want: 0},
		{grade: "A++", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.grade, func(t *testing.T) {
			if got := PointsForGrade(tt.grade); got != tt.want {
				t.Errorf("PointsForGrade(%q) = %v, want %v", tt.grade, got, tt.want)
			}
		})
	}
}

func TestSemesterAverage(t *testing.T) {
	tests := []struct {
		name    string
		courses []Course
		want    float64
	}{
		{name: "no courses", want: 0},
		{name: "blank course", courses: []Course{{}}, want: 0},
		{
			name:    "zero credits or no grade",
			courses: []Course{{Name: "x", Credits: 0, Grade: A}, {Name: "y", Credits: 3, Grade: ""}},
			want:    0,
		},
		{name: "negative credits", courses: []Course{{Credits: -2, Grade: A}}, want: 0},
		{
			name:    "weighted",
			courses: []Course{{Name: "Algebra", Credits: 4, Grade: A}, {Name: "Poetry", Credits: 2, Grade: BPlus}},
			want:    52.0 / 6.0,
		},
		{
			name:    "unknown grade is not counted",
			courses: []Course{{Credits: 3, Grade: A}, {Credits: 3, Grade: "Z"}},
			want:    9,
		},
		{
			name:    "F counts as zero",
			courses: []Course{{Credits: 3, Grade: A}, {Credits: 3, Grade: F}},
			want:    4.5,
		},
		{
			name:    "fractional credits",
			courses: []Course{{Credits: 1.5, Grade: APlus}, {Credits: 0.5, Grade: D}},
			want:    (15 + 2) / 2.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SemesterAverage(tt.courses); !almostEqual(got, tt.want) {
				t.Errorf("SemesterAverage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSemesterAverage_singleCourse(t *testing.T) {
	for _, s := range Scale {
		for _, credits := range []float64{0.5, 1, 3, 4.5} {
			got := SemesterAverage([]Course{{Credits: credits, Grade: s.Symbol}})
			if !almostEqual(got, float64(PointsForGrade(s.Symbol))) {
				t.Errorf("SemesterAverage(%v credits of %s) = %v, want %v", credits, s.Symbol, got, s.Points)
			}
		}
	}
}

func TestSemesterAverage_scaleInvariance(t *testing.T) {
	courses := []Course{{Credits: 3, Grade: A}, {Credits: 4, Grade: C}, {Credits: 1, Grade: BPlus}, {Credits: 2, Grade: F}}
	want := SemesterAverage(courses)

	for _, k := range []float64{0.25, 2, 7.5, 100} {
		scaled := make([]Course, len(courses))
		for i, c := range courses {
			c.Credits *= k
			scaled[i] = c
		}
		if got := SemesterAverage(scaled); !almostEqual(got, want) {
			t.Errorf("SemesterAverage() with credits x%v = %v, want %v", k, got, want)
		}
	}
}

func TestCumulativeAverage(t *testing.T) {
	s1 := Semester{Courses: []Course{{Credits: 3, Grade: APlus}, {Credits: 1, Grade: F}}}
	s2 := Semester{Courses: []Course{{Credits: 2, Grade: C}}}

	t.Run("empty", func(t *testing.T) {
		if got := CumulativeAverage(nil); got != 0 {
			t.Errorf("CumulativeAverage(nil) = %v, want 0", got)
		}
		if got := CumulativeAverage([]Semester{{}, {Courses: []Course{{}}}}); got != 0 {
			t.Errorf("CumulativeAverage(blank) = %v, want 0", got)
		}
	})

	t.Run("pooled", func(t *testing.T) {
		got := CumulativeAverage([]Semester{s1, s2})
		pooled := SemesterAverage(append(append([]Course{}, s1.Courses...), s2.Courses...))
		if !almostEqual(got, pooled) {
			t.Errorf("CumulativeAverage() = %v, want pooled %v", got, pooled)
		}
		if !almostEqual(got, 40.0/6.0) {
			t.Errorf("CumulativeAverage() = %v, want %v", got, 40.0/6.0)
		}

		meanOfSGPAs := (SemesterAverage(s1.Courses) + SemesterAverage(s2.Courses)) / 2
		if almostEqual(got, meanOfSGPAs) {
			t.Errorf("CumulativeAverage() = mean of SGPAs %v; credits should weigh in", meanOfSGPAs)
		}
	})

	t.Run("equal credits match mean of SGPAs", func(t *testing.T) {
		a := Semester{Courses: []Course{{Credits: 4, Grade: A}}}
		b := Semester{Courses: []Course{{Credits: 2, Grade: B}, {Credits: 2, Grade: C}}}
		got := CumulativeAverage([]Semester{a, b})
		if want := (9.0 + 6.0) / 2; !almostEqual(got, want) {
			t.Errorf("CumulativeAverage() = %v, want %v", got, want)
		}
	})

	t.Run("cached sgpa is ignored", func(t *testing.T) {
		stale := s2
		stale.SGPA = 10
		if got := CumulativeAverage([]Semester{stale}); !almostEqual(got, 5) {
			t.Errorf("CumulativeAverage() = %v, want 5", got)
		}
	})
}

func TestFixedAverage(t *testing.T) {
	sem1Credits := []float64{1.5, 1, 3, 4, 4, 4}

	tests := []struct {
		name    string
		scores  []float64
		credits []float64
		want    float64
	}{
		{name: "empty", want: 0},
		{name: "length mismatch", scores: []float64{10, 9}, credits: sem1Credits, want: 0},
		{name: "zero credits", scores: []float64{10, 9}, credits: []float64{0, 0}, want: 0},
		{name: "term 1 sample", scores: []float64{10, 9, 8, 7, 6, 6}, credits: sem1Credits, want: 124 / 17.5},
		{name: "all tens", scores: []float64{10, 10, 10, 10, 10, 10}, credits: sem1Credits, want: 10},
		{name: "zero scores count", scores: []float64{0, 10}, credits: []float64{1, 1}, want: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FixedAverage(tt.scores, tt.credits); !almostEqual(got, tt.want) {
				t.Errorf("FixedAverage() = %v, want %v", got, tt.want)
			}
		})
	}
}
