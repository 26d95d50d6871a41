package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/grade"
)

type (
	SGPARequest struct {
		Courses []grade.Course `json:"courses" validate:"required,dive"`
	}

	SemestersRequest struct {
		Semesters []grade.Semester `json:"semesters" validate:"required,dive"`
	}

	ScoresRequest struct {
		Scores []float64 `json:"scores" validate:"required,dive,gradepoint"`
	}

	SGPAResponse struct {
		SGPA float64 `json:"sgpa"`
	}

	CGPAResponse struct {
		CGPA  float64   `json:"cgpa"`
		SGPAs []float64 `json:"sgpas"`
	}
)

func (r *SGPARequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

func (r *SemestersRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

// Validate checks the scores against the curriculum they are meant for.
func (r *ScoresRequest) Validate(validate *validator.Validate, cur grade.Curriculum) error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if len(r.Scores) != len(cur.Subjects) {
		return core.NewValidationError(nil, core.FieldError{
			Field: "scores",
			Error: "expected " + strconv.Itoa(len(cur.Subjects)) + " scores",
		})
	}
	return nil
}

type gradeApi struct {
	validate *validator.Validate
}

func registerGradeAPI(g *echo.Group, validate *validator.Validate) {
	api := gradeApi{validate: validate}

	g.GET("/scale", api.scale)
	g.POST("/sgpa", api.sgpa)
	g.POST("/cgpa", api.cgpa)
	g.POST("/analytics", api.analytics)

	cg := g.Group("/curricula")
	cg.GET("", api.curricula)
	cg.GET("/:term", api.curriculum)
	cg.POST("/:term/sgpa", api.curriculumSGPA)
}

// Handlers

func (api *gradeApi) scale(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, grade.Scale)
}

func (api *gradeApi) sgpa(ctx echo.Context) error {
	var data SGPARequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SGPARequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SGPAResponse{SGPA: grade.SemesterAverage(data.Courses)})
}

// loadSemesters binds the semesters and returns them in a recomputed workbook.
func (api *gradeApi) loadSemesters(ctx echo.Context) (*grade.Workbook, error) {
	var data SemestersRequest
	if err := ctx.Bind(&data); err != nil {
		return nil, errors.Wrap(err, "binding to SemestersRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return nil, err
	}
	wb := grade.LoadWorkbook(data.Semesters)
	wb.RecomputeAll()
	return wb, nil
}

func (api *gradeApi) cgpa(ctx echo.Context) error {
	wb, err := api.loadSemesters(ctx)
	if err != nil {
		return err
	}
	sems := wb.Semesters()
	resp := CGPAResponse{CGPA: wb.CGPA(), SGPAs: make([]float64, 0, len(sems))}
	for _, sem := range sems {
		resp.SGPAs = append(resp.SGPAs, sem.SGPA)
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *gradeApi) analytics(ctx echo.Context) error {
	wb, err := api.loadSemesters(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grade.Analyze(wb.Semesters()))
}

func (api *gradeApi) curricula(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, grade.Curricula())
}

func getCurriculum(ctx echo.Context) (grade.Curriculum, error) {
	term, err := strconv.Atoi(ctx.Param("term"))
	if err != nil {
		return grade.Curriculum{}, errHttpNotFound
	}
	cur, ok := grade.CurriculumFor(term)
	if !ok {
		return grade.Curriculum{}, errHttpUnknownTerm
	}
	return cur, nil
}

func (api *gradeApi) curriculum(ctx echo.Context) error {
	cur, err := getCurriculum(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cur)
}

func (api *gradeApi) curriculumSGPA(ctx echo.Context) error {
	cur, err := getCurriculum(ctx)
	if err != nil {
		return err
	}
	var data ScoresRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScoresRequest")
	}
	if err = data.Validate(api.validate, cur); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SGPAResponse{SGPA: cur.Average(data.Scores)})
}
