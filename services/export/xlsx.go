package exportsvc

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/cgpa/core/grade"
	"github.com/trezcool/cgpa/core/record"
)

const (
	// ContentType of the generated spreadsheets.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	summarySheet = "Summary"
)

// Filename is the suggested name of the exported file.
const Filename = "cgpa-records.xlsx"

// XLSX renders saved records as a spreadsheet: one summary sheet listing every semester's SGPA and the CGPA,
// then one sheet per semester with its subjects (when the term has a curriculum) and grades.
func XLSX(recs record.Records, cgpa float64) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, errors.Wrap(err, "renaming sheet")
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating header style")
	}

	// summary
	_ = f.SetColWidth(summarySheet, "A", "C", 14)
	setRow(f, summarySheet, 1, "Semester", "SGPA", "Band")
	_ = f.SetCellStyle(summarySheet, "A1", "C1", headerStyle)
	row := 2
	for _, idx := range recs.Indexes() {
		rec := recs[idx]
		setRow(f, summarySheet, row, idx, round2(rec.SGPA), grade.Band(rec.SGPA))
		row++
	}
	setRow(f, summarySheet, row, "CGPA", round2(cgpa), grade.Band(cgpa))
	_ = f.SetCellStyle(summarySheet, cell("A", row), cell("A", row), headerStyle)

	// one sheet per semester
	for _, idx := range recs.Indexes() {
		name := SemesterSheet(idx)
		if _, err = f.NewSheet(name); err != nil {
			return nil, errors.Wrapf(err, "creating sheet %s", name)
		}
		_ = f.SetColWidth(name, "A", "A", 36)
		setRow(f, name, 1, "Subject", "Credits", "Grade")
		_ = f.SetCellStyle(name, "A1", "C1", headerStyle)

		cur, hasCur := grade.CurriculumFor(idx)
		for i, g := range recs[idx].Grades {
			subject, credits := "Subject "+strconv.Itoa(i+1), interface{}("")
			if hasCur && i < len(cur.Subjects) {
				subject, credits = cur.Subjects[i].Name, cur.Subjects[i].Credits
			}
			setRow(f, name, i+2, subject, credits, g)
		}
	}

	f.SetActiveSheet(0)
	buf := new(bytes.Buffer)
	if err = f.Write(buf); err != nil {
		return nil, errors.Wrap(err, "writing spreadsheet")
	}
	return buf, nil
}

// SemesterSheet names the detail sheet of semester idx.
func SemesterSheet(idx int) string {
	return fmt.Sprintf("Semester %d", idx)
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetCellValue(sheet, cell(col, row), v)
	}
}

func cell(col string, row int) string {
	return col + strconv.Itoa(row)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
