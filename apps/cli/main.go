package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/grade"
	"github.com/trezcool/cgpa/core/record"
	"github.com/trezcool/cgpa/services/logger"
	"github.com/trezcool/cgpa/storage/kvstore"
)

func main() {
	conf := core.NewConfig()

	zl, err := logsvc.NewZapLogger(conf.LogLevel, conf.Debug)
	if err != nil {
		log.Fatal(err)
	}
	logger := logsvc.NewRollbarLogger(zl.Named("cli"), conf)
	logger.Enable(!conf.Debug)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	grade.InitValidators(validate, translator)
	record.InitValidators(validate, translator)

	cli := commandLine{
		conf:       conf,
		validate:   validate,
		translator: translator,
		in:         os.Stdin,
		out:        os.Stdout,
	}

	// results are kept on disk between runs unless another persistent store is configured
	if conf.Store.Driver == kvstore.DriverMemory {
		conf.Store.Driver = kvstore.DriverFile
	}
	if len(os.Args) < 2 || os.Args[1] != "migrate" {
		store, closeStore, err := kvstore.Open(context.Background(), conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up %s store: %v", conf.Store.Driver, err), err)
		}
		defer func() { _ = closeStore() }()
		cli.svc = record.NewService(store, validate)
	}

	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			printErr(err)
			if !isUserError(err) {
				logger.Error("command failed", err, map[string]interface{}{"args": os.Args[1:]})
			}
		}
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func printErr(err error) {
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	if !ok || len(vErr.Fields) == 0 {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		return
	}
	fmt.Fprintln(os.Stderr, "error:")
	for _, fld := range vErr.Fields {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", fld.Field, fld.Error)
	}
}

// isUserError reports whether err comes from bad input rather than from the program.
func isUserError(err error) bool {
	switch errors.Cause(err) {
	case record.ErrUnknownTerm, record.ErrNotFound, grade.ErrSemesterNotFound, errNotConfirmed, errNeedsYes:
		return true
	}
	return core.IsValidationError(err)
}
