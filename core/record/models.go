package record

import (
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/cgpa/core"
)

// Record is what is saved for one semester: the raw grade inputs and the SGPA computed from them.
type Record struct {
	Grades []string `json:"grades" validate:"dive,rawgrade"`
	SGPA   float64  `json:"sgpa" validate:"gte=0,lte=10"`
}

func (rec Record) Validate(validate *validator.Validate) error {
	return validate.Struct(rec)
}

// Scores parses the raw grades; blank inputs count as 0.
func (rec Record) Scores() ([]float64, error) {
	return ParseGrades(rec.Grades)
}

// Records maps semester indexes to their saved Record.
type Records map[int]Record

// Indexes returns the semester indexes in ascending order.
func (rs Records) Indexes() []int {
	idxs := make([]int, 0, len(rs))
	for idx := range rs {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	return idxs
}

// SaveRequest contains the raw grade inputs of one semester.
type SaveRequest struct {
	Grades []string `json:"grades" validate:"required,dive,rawgrade"`
}

func (sr *SaveRequest) Validate(validate *validator.Validate) error {
	for i, g := range sr.Grades {
		sr.Grades[i] = core.CleanString(g)
	}
	return validate.Struct(sr)
}

// ParseGrades converts raw grade inputs ("" or "0".."10") into grade points.
func ParseGrades(grades []string) ([]float64, error) {
	scores := make([]float64, 0, len(grades))
	for i, g := range grades {
		score, ok := parseGrade(g)
		if !ok {
			return nil, core.NewValidationError(nil, core.FieldError{
				Field: "grades[" + strconv.Itoa(i) + "]",
				Error: rawGradeText,
			})
		}
		scores = append(scores, float64(score))
	}
	return scores, nil
}

func parseGrade(g string) (int, bool) {
	g = strings.TrimSpace(g)
	if g == "" {
		return 0, true
	}
	n, err := strconv.Atoi(g)
	if err != nil || n < 0 || n > 10 || strconv.Itoa(n) != g {
		return 0, false
	}
	return n, true
}
