package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/Dharshini-7v/report-card/core/report"
	sheetsvc "github.com/Dharshini-7v/report-card/services/sheet"
)

// importMarks runs a marks spreadsheet through the report pipeline for uname.
func (cli *commandLine) importMarks(uname, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	subs, err := sheetsvc.ReadSubmissions(f)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	rep, err := cli.reportSvc.Submit(context.Background(), uname, subs)
	if err != nil {
		return err
	}
	cli.logger.Info("report imported from "+path, rep)

	fmt.Fprintf(cli.out, "%d students processed for %q\n", len(rep.Students), rep.Owner)
	fmt.Fprintf(cli.out, "class average: %.2f\n", rep.Summary.ClassAverage)
	for _, g := range report.Grades {
		fmt.Fprintf(cli.out, "  %-2s %d\n", g, rep.Summary.GradeCounts[g])
	}
	return nil
}

// exportReport writes uname's current report to a spreadsheet at path.
func (cli *commandLine) exportReport(uname, path string) error {
	rep, err := cli.reportSvc.Report(context.Background(), uname)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = sheetsvc.WriteReport(f, rep); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	cli.logger.Info("report exported to "+path, rep)
	fmt.Fprintf(cli.out, "%d students exported to %s\n", len(rep.Students), path)
	return nil
}
