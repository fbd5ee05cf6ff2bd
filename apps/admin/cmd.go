package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/peterbourgon/ff/v3"
	"golang.org/x/term"

	"github.com/Dharshini-7v/report-card/core"
	"github.com/Dharshini-7v/report-card/core/report"
	"github.com/Dharshini-7v/report-card/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp       = errors.New("help provided")
	errNoDatabase = errors.New("migrations need a database: set SRS_DATABASE_ENGINE")
)

const envVarPrefix = "SRS"

type commandLine struct {
	db        *sql.DB // nil with in-memory storage
	usrSvc    *user.Service
	reportSvc *report.Service
	validate  *validator.Validate
	logger    core.Logger
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -username USERNAME [-dept DEPT]          - create a user or reset their password")
	fmt.Fprintln(cli.out, "  resetpassword -username USERNAME                 - reset an existing user's password")
	fmt.Fprintln(cli.out, "  import -username USERNAME -file MARKS.xlsx       - process a marks sheet into USERNAME's report")
	fmt.Fprintln(cli.out, "  export -username USERNAME -file REPORT.xlsx      - write USERNAME's report to a spreadsheet")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                           - run database migrations (goose commands)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "adduser":
		fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
		uname := fs.String("username", "", "The user's username. The password will be prompted next.")
		dept := fs.String("dept", "", "The user's department (optional).")
		if err := parseFlags(fs, args[2:]); err != nil {
			return err
		}
		if *uname == "" {
			fs.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(fs)
		if err != nil {
			return err
		}
		return cli.addUser(*uname, *dept, pwd)

	case "resetpassword":
		fs := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
		uname := fs.String("username", "", "The user's username. The password will be prompted next.")
		if err := parseFlags(fs, args[2:]); err != nil {
			return err
		}
		if *uname == "" {
			fs.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(fs)
		if err != nil {
			return err
		}
		return cli.resetPassword(*uname, pwd)

	case "import", "export":
		fs := flag.NewFlagSet(args[1], flag.ContinueOnError)
		uname := fs.String("username", "", "The owner of the report.")
		file := fs.String("file", "", "Path of the .xlsx spreadsheet.")
		if err := parseFlags(fs, args[2:]); err != nil {
			return err
		}
		if *uname == "" || *file == "" {
			fs.Usage()
			return errHelp
		}
		if args[1] == "import" {
			return cli.importMarks(*uname, *file)
		}
		return cli.exportReport(*uname, *file)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix(envVarPrefix)); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) promptPassword(fs *flag.FlagSet) (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

func newCommandLine(db *sql.DB, usrSvc *user.Service, reportSvc *report.Service, validate *validator.Validate, logger core.Logger) *commandLine {
	return &commandLine{
		db:        db,
		usrSvc:    usrSvc,
		reportSvc: reportSvc,
		validate:  validate,
		logger:    logger,
		out:       os.Stdout,
	}
}
