package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/record"
	"github.com/trezcool/cgpa/storage/database"
)

var (
	isTerminalFunc   = term.IsTerminal // mockable
	runMigrationFunc = runMigration    // mockable

	errHelp         = errors.New("help provided")
	errNotConfirmed = errors.New("aborted")
	errNeedsYes     = errors.New("stdin is not a terminal: pass -yes to confirm")
)

type commandLine struct {
	conf       *core.Config
	svc        record.Service
	validate   *validator.Validate
	translator ut.Translator
	in         io.Reader
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  scale                                     - print the grading scale")
	fmt.Fprintln(cli.out, "  curricula [-term N]                       - print the fixed curricula")
	fmt.Fprintln(cli.out, "  sgpa -term N -grades 10,9,,8 [-save]      - compute (and save) the SGPA of a term")
	fmt.Fprintln(cli.out, "  calc -file semesters.json [-semester N]  - compute SGPAs, CGPA and analytics of semesters")
	fmt.Fprintln(cli.out, "  show                                      - print the saved semesters and the CGPA")
	fmt.Fprintln(cli.out, "  export [-format json|xlsx] [-out PATH]    - export the saved semesters")
	fmt.Fprintln(cli.out, "  import -file PATH                         - replace the saved semesters with an export")
	fmt.Fprintln(cli.out, "  clear [-yes]                              - delete every saved semester")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                    - run a database migration command (up, down, status, ...)")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	curriculaCmd := cli.newFlagSet("curricula")
	curriculaTerm := curriculaCmd.Int("term", 0, "Only print this term's curriculum.")

	sgpaCmd := cli.newFlagSet("sgpa")
	sgpaTerm := sgpaCmd.Int("term", 0, "The term (semester index) the grades are for.")
	sgpaGrades := sgpaCmd.String("grades", "", "Comma separated grade points (0-10), one per subject in curriculum order. Leave blank for 0.")
	sgpaSave := sgpaCmd.Bool("save", false, "Save the grades and the SGPA.")

	calcCmd := cli.newFlagSet("calc")
	calcFile := calcCmd.String("file", "", `A JSON file: {"semesters": [{"courses": [{"name": "...", "credits": 4, "grade": "A"}], "sgpa": 0}]}`)
	calcSemester := calcCmd.Int("semester", 0, "Recompute only this semester (1-based); the others keep the sgpa read from the file.")

	exportCmd := cli.newFlagSet("export")
	exportFormat := exportCmd.String("format", "json", "json or xlsx.")
	exportOut := exportCmd.String("out", "", "Output file. JSON is printed when empty.")

	importCmd := cli.newFlagSet("import")
	importFile := importCmd.String("file", "", "A JSON export.")

	clearCmd := cli.newFlagSet("clear")
	clearYes := clearCmd.Bool("yes", false, "Do not ask for confirmation.")

	switch args[1] {
	case "scale":
		return cli.scale()
	case "curricula":
		if err := parse(curriculaCmd, args[2:]); err != nil {
			return err
		}
		return cli.curricula(*curriculaTerm)
	case "sgpa":
		if err := parse(sgpaCmd, args[2:]); err != nil {
			return err
		}
		if *sgpaTerm == 0 || *sgpaGrades == "" {
			sgpaCmd.Usage()
			return errHelp
		}
		return cli.sgpa(ctx, *sgpaTerm, strings.Split(*sgpaGrades, ","), *sgpaSave)
	case "calc":
		if err := parse(calcCmd, args[2:]); err != nil {
			return err
		}
		if *calcFile == "" {
			calcCmd.Usage()
			return errHelp
		}
		return cli.calc(*calcFile, *calcSemester)
	case "show":
		return cli.show(ctx)
	case "export":
		if err := parse(exportCmd, args[2:]); err != nil {
			return err
		}
		return cli.export(ctx, *exportFormat, *exportOut)
	case "import":
		if err := parse(importCmd, args[2:]); err != nil {
			return err
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importRecords(ctx, *importFile)
	case "clear":
		if err := parse(clearCmd, args[2:]); err != nil {
			return err
		}
		return cli.clear(ctx, *clearYes)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return runMigrationFunc(ctx, cli.conf.Database, args[2], args[3:]...)
	default:
		cli.printUsage()
		return errHelp
	}
}

// confirm asks a yes/no question on the terminal.
func (cli *commandLine) confirm(question string) error {
	if !isTerminalFunc(int(os.Stdin.Fd())) {
		return errNeedsYes
	}
	fmt.Fprintf(cli.out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(cli.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	}
	return errNotConfirmed
}

// validationErr turns validator errors into a *core.ValidationError with readable messages.
func (cli *commandLine) validationErr(err error) error {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := core.TranslateErrors(vErrs, cli.translator)
	fields := make([]core.FieldError, 0, len(msgs))
	for fld, msg := range msgs {
		fields = append(fields, core.FieldError{Field: fld, Error: msg})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return core.NewValidationError(nil, fields...)
}

func runMigration(ctx context.Context, conf core.DatabaseConfig, command string, args ...string) error {
	db, err := database.Open(conf)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err = database.Ping(ctx, db, 10); err != nil {
		return err
	}
	return database.RunMigration(ctx, db, command, args...)
}
