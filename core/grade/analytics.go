package grade

// Trends
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// trendMargin is how far the last SGPA must move away from the previous one to count as a trend.
const trendMargin = 0.3

type (
	GradeCount struct {
		Symbol string `json:"symbol"`
		Count  int    `json:"count"`
	}

	Trend struct {
		Direction string `json:"direction"`
		Text      string `json:"text"`
	}

	// Summary describes a set of semesters at a glance.
	Summary struct {
		Semesters    int          `json:"semesters"`
		Courses      int          `json:"courses"`
		Credits      float64      `json:"credits"`
		CGPA         float64      `json:"cgpa"`
		Band         string       `json:"band"`
		Distribution []GradeCount `json:"distribution"`
		Trend        Trend        `json:"trend"`
	}
)

// Analyze summarizes semesters. The trend uses the cached SGPAs of the last two semesters.
func Analyze(semesters []Semester) Summary {
	counts := make(map[string]int, len(Scale))
	sum := Summary{Semesters: len(semesters)}
	for _, sem := range semesters {
		sum.Courses += len(sem.Courses)
		for _, c := range sem.Courses {
			if c.Credits > 0 {
				sum.Credits += c.Credits
			}
			if Recognized(c.Grade) {
				counts[normalize(c.Grade)]++
			}
		}
	}

	sum.Distribution = make([]GradeCount, 0, len(Scale))
	for _, s := range Scale {
		sum.Distribution = append(sum.Distribution, GradeCount{Symbol: s.Symbol, Count: counts[s.Symbol]})
	}

	sum.CGPA = CumulativeAverage(semesters)
	sum.Band = Band(sum.CGPA)
	sum.Trend = trendOf(semesters)
	return sum
}

func trendOf(semesters []Semester) Trend {
	n := len(semesters)
	if n <= 1 {
		return Trend{Direction: TrendStable, Text: "not enough data to determine trend"}
	}
	last, prev := semesters[n-1].SGPA, semesters[n-2].SGPA
	switch {
	case last > prev+trendMargin:
		return Trend{Direction: TrendImproving, Text: "performance is improving"}
	case last < prev-trendMargin:
		return Trend{Direction: TrendDeclining, Text: "performance is declining"}
	default:
		return Trend{Direction: TrendStable, Text: "performance is stable"}
	}
}

// Band labels a grade point average.
func Band(gpa float64) string {
	switch {
	case gpa >= 9:
		return "outstanding"
	case gpa >= 8:
		return "excellent"
	case gpa >= 7:
		return "very good"
	case gpa >= 6:
		return "good"
	case gpa >= 5:
		return "average"
	case gpa >= 4:
		return "pass"
	default:
		return "fail"
	}
}
