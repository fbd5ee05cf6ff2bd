package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/Dharshini-7v/report-card/core"
	"github.com/Dharshini-7v/report-card/core/report"
	"github.com/Dharshini-7v/report-card/core/user"
	logsvc "github.com/Dharshini-7v/report-card/services/logger"
	"github.com/Dharshini-7v/report-card/storage"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(!conf.Debug)

	stores, err := storage.Open(context.Background(), conf, logger)
	if err != nil {
		logger.Fatal("setting up storage", err)
	}

	var db *sql.DB
	if stores.DB != nil {
		db = stores.DB.DB
	}

	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	cli := newCommandLine(db, user.NewService(stores.Users), report.NewService(stores.Reports), validate, logger)
	err = cli.run(os.Args)

	if cErr := stores.Close(); cErr != nil {
		logger.Error("closing storage", cErr)
	}
	if err != nil {
		if err != errHelp {
			logger.Error("error: "+err.Error(), err)
		}
		os.Exit(1)
	}
}
