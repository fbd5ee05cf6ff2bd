package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/Dharshini-7v/report-card/apps/api/echo"
	"github.com/Dharshini-7v/report-card/core"
	"github.com/Dharshini-7v/report-card/core/report"
	"github.com/Dharshini-7v/report-card/core/user"
	logsvc "github.com/Dharshini-7v/report-card/services/logger"
	"github.com/Dharshini-7v/report-card/storage"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStores(conf *core.Config, loggerParam DBLoggerParam) (*storage.Stores, user.Repository, report.Repository) {
	stores, err := storage.Open(context.Background(), conf, loggerParam.Logger)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	return stores, stores.Users, stores.Reports
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStores))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(user.NewService))
	must(c.Provide(report.NewService))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
