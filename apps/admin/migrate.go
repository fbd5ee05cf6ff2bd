package main

import (
	"github.com/pressly/goose/v3"

	"github.com/Dharshini-7v/report-card/storage/database"
)

var gooseRunFunc = goose.Run // mockable

// migrate runs a goose command over the embedded migrations.
func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db, database.MigrationsDir, arguments...)
}
