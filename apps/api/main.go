package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	dig_container "github.com/Dharshini-7v/report-card/apps/api/di/dig"
	echoapi "github.com/Dharshini-7v/report-card/apps/api/echo"
	"github.com/Dharshini-7v/report-card/core"
	"github.com/Dharshini-7v/report-card/core/report"
	"github.com/Dharshini-7v/report-card/storage"
)

func main() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		stores *storage.Stores,
		validate *validator.Validate,
		translator ut.Translator,
		server *echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		apiLogger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))

		core.InitValidators(validate, translator)
		report.InitValidators(validate, translator)

		dbLogger := dbLoggerParam.Logger
		defer func() {
			if err := stores.Close(); err != nil {
				dbLogger.Fatal("Failed to close", err)
			}
		}()
		defer apiLogger.Info("Application stopped")

		// =========================================================================
		// Start Debug Service
		//
		// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
		// /debug/vars - Added to the default mux by importing the expvar package.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)

		if conf.Server.DebugHost != "" {
			go func() {
				if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
					apiLogger.Error(fmt.Sprintf("debug server closed: %v", err), err)
				}
			}()
		}

		// =========================================================================
		// Start API Service

		apiLogger.Info(fmt.Sprintf("API listening on %s", conf.Server.Address))
		go func() {
			server.Start()
		}()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			apiLogger.Fatal(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			apiLogger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				apiLogger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					apiLogger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
