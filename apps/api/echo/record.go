package echoapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/cgpa/core/record"
	"github.com/trezcool/cgpa/services/export"
)

// RecordsResponse lists the saved records with their CGPA.
type RecordsResponse struct {
	Records record.Records `json:"records"`
	CGPA    float64        `json:"cgpa"`
}

type recordApi struct {
	svc      record.Service
	validate *validator.Validate
}

func registerRecordAPI(g *echo.Group, svc record.Service, validate *validator.Validate) {
	api := recordApi{svc: svc, validate: validate}

	rg := g.Group("/records")
	rg.GET("", api.query)
	rg.DELETE("", api.clear)
	rg.GET("/export", api.export)
	rg.POST("/import", api.importRecords)

	// detail endpoints
	rg.GET("/:index", api.retrieve)
	rg.PUT("/:index", api.save)
	rg.DELETE("/:index", api.destroy)
}

func getIndex(ctx echo.Context) (int, error) {
	idx, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		return 0, errHttpInvalidIndex
	}
	return idx, nil
}

func (api *recordApi) respondRecords(ctx echo.Context, recs record.Records) error {
	cgpa, err := api.svc.Cumulative(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing CGPA")
	}
	if recs == nil {
		recs = record.Records{}
	}
	return ctx.JSON(http.StatusOK, RecordsResponse{Records: recs, CGPA: cgpa})
}

// Handlers

func (api *recordApi) query(ctx echo.Context) error {
	recs, err := api.svc.All(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying records")
	}
	return api.respondRecords(ctx, recs)
}

func (api *recordApi) clear(ctx echo.Context) error {
	if err := api.svc.Clear(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "clearing records")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *recordApi) export(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	switch ctx.QueryParam("format") {
	case "", "json":
		data, err := api.svc.Export(reqCtx)
		if err != nil {
			return errors.Wrap(err, "exporting records")
		}
		ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="cgpa-records.json"`)
		return ctx.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
	case "xlsx":
		recs, err := api.svc.All(reqCtx)
		if err != nil {
			return errors.Wrap(err, "querying records")
		}
		cgpa, err := api.svc.Cumulative(reqCtx)
		if err != nil {
			return errors.Wrap(err, "computing CGPA")
		}
		buf, err := exportsvc.XLSX(recs, cgpa)
		if err != nil {
			return errors.Wrap(err, "exporting records")
		}
		ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+exportsvc.Filename+`"`)
		return ctx.Stream(http.StatusOK, exportsvc.ContentType, buf)
	default:
		return errHttpUnknownFmt
	}
}

func (api *recordApi) importRecords(ctx echo.Context) error {
	data, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading request body")
	}
	recs, err := api.svc.Import(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return api.respondRecords(ctx, recs)
}

func (api *recordApi) retrieve(ctx echo.Context) error {
	idx, err := getIndex(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.Get(ctx.Request().Context(), idx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *recordApi) save(ctx echo.Context) error {
	idx, err := getIndex(ctx)
	if err != nil {
		return err
	}
	var data record.SaveRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	rec, err := api.svc.Save(ctx.Request().Context(), idx, data.Grades)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *recordApi) destroy(ctx echo.Context) error {
	idx, err := getIndex(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), idx); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
