package tests

import (
	"net/http"
	"testing"

	"github.com/trezcool/cgpa/apps/api/echo"
	"github.com/trezcool/cgpa/core/grade"
)

func Test_home(t *testing.T) {
	app, _ := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
	}
	if got, want := rec.Body.String(), "Welcome to CGPA API!"; got != want {
		t.Errorf("failed! body = %q; want %q", got, want)
	}
}

func Test_gradeApi_calculators(t *testing.T) {
	app, _ := setup(t)

	analyzed := grade.Analyze([]grade.Semester{
		{Courses: []grade.Course{{Name: "Algebra", Credits: 4, Grade: "A"}, {Credits: 2, Grade: "b+"}}, SGPA: 52.0 / 6},
		{Courses: []grade.Course{{Credits: 3, Grade: "C"}}, SGPA: 5},
	})

	tests := []httpTest{
		{name: "scale", path: "/v1/scale", wantCode: http.StatusOK, wantData: marchallObj(t, grade.Scale)},
		{
			name:     "sgpa",
			method:   http.MethodPost,
			path:     "/v1/sgpa",
			body:     []byte(`{"courses": [{"name": "Algebra", "credits": 4, "grade": "A"}, {"credits": 2, "grade": "B+"}]}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.SGPAResponse{SGPA: 52.0 / 6}),
		},
		{
			name:     "sgpa: blank grades are not counted",
			method:   http.MethodPost,
			path:     "/v1/sgpa",
			body:     []byte(`{"courses": [{"credits": 4, "grade": "A"}, {"credits": 2, "grade": ""}, {"credits": 0, "grade": "F"}]}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.SGPAResponse{SGPA: 9}),
		},
		{
			name:     "sgpa: no courses",
			method:   http.MethodPost,
			path:     "/v1/sgpa",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"courses": "this field is required"}),
		},
		{
			name:     "sgpa: invalid course",
			method:   http.MethodPost,
			path:     "/v1/sgpa",
			body:     []byte(`{"courses": [{"credits": -1, "grade": "A"}, {"credits": 2, "grade": "A++"}]}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"courses[0].credits": "credits must be 0 or greater",
				"courses[1].grade":   `"A++" is not a valid grade (did you mean "A+"?)`,
			}),
		},
		{name: "sgpa: malformed body", method: http.MethodPost, path: "/v1/sgpa", body: []byte(`{"courses": `), wantCode: http.StatusBadRequest},
		{
			name:     "cgpa",
			method:   http.MethodPost,
			path:     "/v1/cgpa",
			body:     []byte(`{"semesters": [{"courses": [{"credits": 4, "grade": "A"}]}, {"courses": [{"credits": 2, "grade": "B+"}]}, {"courses": []}]}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.CGPAResponse{CGPA: 52.0 / 6, SGPAs: []float64{9, 8, 0}}),
		},
		{
			name:     "cgpa: stale sgpas are recomputed",
			method:   http.MethodPost,
			path:     "/v1/cgpa",
			body:     []byte(`{"semesters": [{"courses": [{"credits": 3, "grade": "A+"}], "sgpa": 2}]}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.CGPAResponse{CGPA: 10, SGPAs: []float64{10}}),
		},
		{
			name:     "analytics",
			method:   http.MethodPost,
			path:     "/v1/analytics",
			body:     []byte(`{"semesters": [{"courses": [{"name": "Algebra", "credits": 4, "grade": "A"}, {"credits": 2, "grade": "b+"}]}, {"courses": [{"credits": 3, "grade": "C"}]}]}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, analyzed),
		},
		{
			name:     "analytics: invalid grade",
			method:   http.MethodPost,
			path:     "/v1/analytics",
			body:     []byte(`{"semesters": [{"courses": [{"credits": 4, "grade": "Q"}]}]}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"semesters[0].courses[0].grade": `"Q" is not a valid grade`}),
		},
	}

	runHTTPTests(t, app, tests)
}

func Test_gradeApi_curricula(t *testing.T) {
	app, _ := setup(t)

	first, _ := grade.CurriculumFor(1)
	unknownTerm := marchallObj(t, httpErr{Error: "no curriculum for this semester"})

	tests := []httpTest{
		{name: "list", path: "/v1/curricula", wantCode: http.StatusOK, wantData: marchallObj(t, grade.Curricula())},
		{name: "list (trailing slash)", path: "/v1/curricula/", wantCode: http.StatusOK, wantData: marchallObj(t, grade.Curricula())},
		{name: "retrieve", path: "/v1/curricula/1", wantCode: http.StatusOK, wantData: marchallObj(t, first)},
		{name: "retrieve: unknown term", path: "/v1/curricula/9", wantCode: http.StatusNotFound, wantData: unknownTerm},
		{name: "retrieve: not a term", path: "/v1/curricula/one", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
		{
			name:     "sgpa",
			method:   http.MethodPost,
			path:     "/v1/curricula/1/sgpa",
			body:     []byte(`{"scores": [10, 9, 8, 7, 6, 6]}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.SGPAResponse{SGPA: 124 / 17.5}),
		},
		{
			name:     "sgpa: unknown term",
			method:   http.MethodPost,
			path:     "/v1/curricula/5/sgpa",
			body:     []byte(`{"scores": [10]}`),
			wantCode: http.StatusNotFound,
			wantData: unknownTerm,
		},
		{
			name:     "sgpa: wrong score count",
			method:   http.MethodPost,
			path:     "/v1/curricula/1/sgpa",
			body:     []byte(`{"scores": [10, 9]}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"scores": "expected 6 scores"}),
		},
		{
			name:     "sgpa: score out of range",
			method:   http.MethodPost,
			path:     "/v1/curricula/1/sgpa",
			body:     []byte(`{"scores": [10, 11, 8, 7, 6, 6]}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"scores[1]": "scores[1] must be a grade point from 0 to 10"}),
		},
	}

	runHTTPTests(t, app, tests)
}
