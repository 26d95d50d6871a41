package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/cgpa/apps/api/echo"
	"github.com/trezcool/cgpa/core/record"
	"github.com/trezcool/cgpa/services/export"
	"github.com/trezcool/cgpa/tests"
)

func Test_recordApi_save(t *testing.T) {
	app, _ := setup(t)

	term1 := record.Record{Grades: []string{"10", "9", "8", "7", "6", "6"}, SGPA: 124 / 17.5}
	invalidIndex := marchallObj(t, map[string]string{"index": "semester index must be 1 or greater"})

	tests := []httpTest{
		{name: "empty", path: "/v1/records", wantCode: http.StatusOK, wantData: marchallObj(t, echoapi.RecordsResponse{Records: record.Records{}})},
		{
			name:     "save",
			method:   http.MethodPut,
			path:     "/v1/records/1",
			body:     []byte(`{"grades": ["10", "9", "8", "7", "6", "6"]}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, term1),
		},
		{name: "retrieve", path: "/v1/records/1", wantCode: http.StatusOK, wantData: marchallObj(t, term1)},
		{
			name:     "list",
			path:     "/v1/records",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.RecordsResponse{Records: record.Records{1: term1}, CGPA: 124 / 17.5}),
		},
		{
			name:     "save: blank grades count as zero",
			method:   http.MethodPut,
			path:     "/v1/records/2",
			body:     []byte(`{"grades": [" 10 ", "", "", "", "", "", "", ""]}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, record.Record{Grades: []string{"10", "", "", "", "", "", "", ""}, SGPA: 15 / 20.5}),
		},
		{
			name:     "save: no curriculum",
			method:   http.MethodPut,
			path:     "/v1/records/5",
			body:     []byte(`{"grades": ["10"]}`),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "no curriculum for this semester"}),
		},
		{
			name:     "save: wrong grade count",
			method:   http.MethodPut,
			path:     "/v1/records/1",
			body:     []byte(`{"grades": ["10"]}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"grades": "expected 6 grades"}),
		},
		{
			name:     "save: invalid grade",
			method:   http.MethodPut,
			path:     "/v1/records/1",
			body:     []byte(`{"grades": ["10", "A", "8", "7", "6", "6"]}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"grades[1]": "grade must be blank or a whole number from 0 to 10"}),
		},
		{
			name:     "save: no grades",
			method:   http.MethodPut,
			path:     "/v1/records/1",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"grades": "this field is required"}),
		},
		{name: "save: not an index", method: http.MethodPut, path: "/v1/records/one", body: []byte(`{"grades": ["1"]}`), wantCode: http.StatusBadRequest, wantData: invalidIndex},
		{name: "save: index 0", method: http.MethodPut, path: "/v1/records/0", body: []byte(`{"grades": ["1"]}`), wantCode: http.StatusBadRequest, wantData: invalidIndex},
		{name: "retrieve: missing", path: "/v1/records/3", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "record not found"})},
		{name: "delete", method: http.MethodDelete, path: "/v1/records/1", wantCode: http.StatusNoContent},
		{name: "retrieve: deleted", path: "/v1/records/1", wantCode: http.StatusNotFound},
		{name: "clear", method: http.MethodDelete, path: "/v1/records", wantCode: http.StatusNoContent},
		{name: "empty again", path: "/v1/records", wantCode: http.StatusOK, wantData: marchallObj(t, echoapi.RecordsResponse{Records: record.Records{}})},
	}

	// steps depend on each other
	runHTTPTests(t, app, tests)
}

func Test_recordApi_export(t *testing.T) {
	app, svc := setup(t)
	testutil.SaveRecord(t, svc, 1, "10", "9", "8", "7", "6", "6")
	testutil.SaveRecord(t, svc, 2, "8", "8", "8", "8", "8", "8", "8", "8")

	t.Run("json", func(t *testing.T) {
		want, err := svc.Export(context.Background())
		require.NoError(t, err)

		req, rec := newRequest(http.MethodGet, "/v1/records/export")
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `attachment; filename="cgpa-records.json"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, string(want), rec.Body.String())
	})

	t.Run("xlsx", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/records/export?format=xlsx")
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, exportsvc.ContentType, rec.Header().Get("Content-Type"))

		f, err := excelize.OpenReader(rec.Body)
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, []string{"Summary", "Semester 1", "Semester 2"}, f.GetSheetList())
	})

	t.Run("unknown format", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/records/export?format=csv")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "unknown export format"})}, rec)
	})
}

func Test_recordApi_import(t *testing.T) {
	app, svc := setup(t)
	testutil.SaveRecord(t, svc, 3, "5", "5", "5", "5", "5", "5", "5", "5", "5")

	term1 := record.Record{Grades: []string{"10", "9", "8", "7", "6", "6"}, SGPA: 7.09}
	payload := marchallObj(t, record.Records{1: term1})

	tests := []httpTest{
		{name: "nothing to import", method: http.MethodPost, path: "/v1/records/import", wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "nothing to import"})},
		{name: "invalid data", method: http.MethodPost, path: "/v1/records/import", body: []byte("{bad"), wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "invalid data format"})},
		{
			name:     "invalid record",
			method:   http.MethodPost,
			path:     "/v1/records/import",
			body:     []byte(`{"1": {"grades": ["11"], "sgpa": 1}}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"grades[0]": "grade must be blank or a whole number from 0 to 10"}),
		},
		{
			name:     "import",
			method:   http.MethodPost,
			path:     "/v1/records/import",
			body:     payload,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.RecordsResponse{Records: record.Records{1: term1}, CGPA: 124 / 17.5}),
		},
		// the imported sgpa is kept as is
		{name: "replaced", path: "/v1/records", wantCode: http.StatusOK, wantData: marchallObj(t, echoapi.RecordsResponse{Records: record.Records{1: term1}, CGPA: 124 / 17.5})},
	}

	runHTTPTests(t, app, tests)
}
