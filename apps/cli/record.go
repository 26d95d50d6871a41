package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/trezcool/cgpa/services/export"
)

func (cli *commandLine) show(ctx context.Context) error {
	recs, err := cli.svc.All(ctx)
	if err != nil {
		return errors.Wrap(err, "loading saved semesters")
	}
	if len(recs) == 0 {
		warnColor.Fprintln(cli.out, "no saved semesters")
		return nil
	}

	table := tablewriter.NewWriter(cli.out)
	table.SetHeader([]string{"Semester", "Grades", "SGPA"})
	for _, idx := range recs.Indexes() {
		rec := recs[idx]
		table.Append([]string{strconv.Itoa(idx), strings.Join(rec.Grades, ","), fmtGPA(rec.SGPA)})
	}
	table.Render()

	cgpa, err := cli.svc.Cumulative(ctx)
	if err != nil {
		return errors.Wrap(err, "computing CGPA")
	}
	cli.printGPA("CGPA", cgpa)
	return nil
}

func (cli *commandLine) export(ctx context.Context, format, out string) error {
	var data []byte
	switch format {
	case "json":
		var err error
		if data, err = cli.svc.Export(ctx); err != nil {
			return errors.Wrap(err, "exporting")
		}
		if out == "" {
			_, err = fmt.Fprintln(cli.out, string(data))
			return err
		}
	case "xlsx":
		recs, err := cli.svc.All(ctx)
		if err != nil {
			return errors.Wrap(err, "loading saved semesters")
		}
		cgpa, err := cli.svc.Cumulative(ctx)
		if err != nil {
			return errors.Wrap(err, "computing CGPA")
		}
		buf, err := exportsvc.XLSX(recs, cgpa)
		if err != nil {
			return errors.Wrap(err, "exporting")
		}
		data = buf.Bytes()
		if out == "" {
			out = exportsvc.Filename
		}
	default:
		return fmt.Errorf("unknown export format %q", format)
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrap(err, "writing export")
	}
	fmt.Fprintf(cli.out, "exported to %s\n", out)
	return nil
}

func (cli *commandLine) importRecords(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading import file")
	}
	recs, err := cli.svc.Import(ctx, data)
	if err != nil {
		return cli.validationErr(err)
	}
	fmt.Fprintf(cli.out, "imported %d semester(s)\n", len(recs))
	return nil
}

func (cli *commandLine) clear(ctx context.Context, yes bool) error {
	if !yes {
		if err := cli.confirm("Delete every saved semester?"); err != nil {
			return err
		}
	}
	if err := cli.svc.Clear(ctx); err != nil {
		return errors.Wrap(err, "clearing saved semesters")
	}
	fmt.Fprintln(cli.out, "cleared")
	return nil
}
