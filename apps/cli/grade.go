package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/grade"
	"github.com/trezcool/cgpa/core/record"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	gpaColor   = color.New(color.FgGreen, color.Bold)
	warnColor  = color.New(color.FgYellow)
)

// calcFile is the input of the calc command.
type calcFile struct {
	Semesters []grade.Semester `json:"semesters" validate:"required,dive"`
}

func fmtGPA(gpa float64) string {
	return strconv.FormatFloat(gpa, 'f', 2, 64)
}

func fmtCredits(credits float64) string {
	return strconv.FormatFloat(credits, 'f', -1, 64)
}

func (cli *commandLine) printGPA(label string, gpa float64) {
	gpaColor.Fprintf(cli.out, "%s: %s (%s)\n", label, fmtGPA(gpa), grade.Band(gpa))
}

func (cli *commandLine) scale() error {
	table := tablewriter.NewWriter(cli.out)
	table.SetHeader([]string{"Grade", "Points"})
	for _, s := range grade.Scale {
		table.Append([]string{s.Symbol, strconv.Itoa(s.Points)})
	}
	table.Render()
	return nil
}

func (cli *commandLine) curricula(term int) error {
	curs := grade.Curricula()
	if term != 0 {
		cur, ok := grade.CurriculumFor(term)
		if !ok {
			return record.ErrUnknownTerm
		}
		curs = []grade.Curriculum{cur}
	}

	for _, cur := range curs {
		titleColor.Fprintf(cli.out, "\nTerm %d (%s credits)\n", cur.Term, fmtCredits(cur.TotalCredits()))
		table := tablewriter.NewWriter(cli.out)
		table.SetHeader([]string{"#", "Subject", "Credits"})
		for i, s := range cur.Subjects {
			table.Append([]string{strconv.Itoa(i + 1), s.Name, fmtCredits(s.Credits)})
		}
		table.Render()
	}
	return nil
}

func (cli *commandLine) sgpa(ctx context.Context, term int, grades []string, save bool) error {
	for i, g := range grades {
		grades[i] = core.CleanString(g)
	}

	var (
		rec record.Record
		err error
	)
	if save {
		rec, err = cli.svc.Save(ctx, term, grades)
	} else {
		rec, err = record.Compute(term, grades)
	}
	if err != nil {
		return err
	}

	cur, _ := grade.CurriculumFor(term)
	table := tablewriter.NewWriter(cli.out)
	table.SetHeader([]string{"Subject", "Credits", "Grade"})
	for i, s := range cur.Subjects {
		table.Append([]string{s.Name, fmtCredits(s.Credits), rec.Grades[i]})
	}
	table.Render()

	cli.printGPA("SGPA", rec.SGPA)
	if save {
		fmt.Fprintf(cli.out, "saved semester %d\n", term)
	}
	return nil
}

func (cli *commandLine) calc(path string, semester int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading semesters")
	}
	var in calcFile
	if err = json.Unmarshal(data, &in); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid semesters file"))
	}
	if err = cli.validate.Struct(in); err != nil {
		return cli.validationErr(err)
	}

	wb := grade.LoadWorkbook(in.Semesters)
	if semester == 0 {
		wb.RecomputeAll()
	} else if _, err = wb.Recompute(semester - 1); err != nil {
		return err
	}
	semesters := wb.Semesters()
	summary := grade.Analyze(semesters)

	table := tablewriter.NewWriter(cli.out)
	table.SetHeader([]string{"Semester", "Courses", "Credits", "SGPA", "Band"})
	for i, sem := range semesters {
		var credits float64
		for _, c := range sem.Courses {
			if c.Counted() {
				credits += c.Credits
			}
		}
		table.Append([]string{strconv.Itoa(i + 1), strconv.Itoa(len(sem.Courses)), fmtCredits(credits), fmtGPA(sem.SGPA), grade.Band(sem.SGPA)})
	}
	table.Render()

	cli.printGPA("CGPA", wb.CGPA())
	fmt.Fprintf(cli.out, "Trend: %s\n", summary.Trend.Text)

	counts := make([]string, 0, len(summary.Distribution))
	for _, gc := range summary.Distribution {
		if gc.Count > 0 {
			counts = append(counts, fmt.Sprintf("%s×%d", gc.Symbol, gc.Count))
		}
	}
	if len(counts) > 0 {
		fmt.Fprintf(cli.out, "Grades: %s\n", strings.Join(counts, " "))
	}
	return nil
}
