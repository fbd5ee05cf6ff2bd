package main

import (
	"context"
	"fmt"

	"github.com/Dharshini-7v/report-card/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, dept, pwd string) error {
	nu := user.NewUser{Username: uname, Dept: dept, Password: pwd}
	if err := nu.Validate(cli.validate); err != nil {
		return err
	}

	usr, err := cli.usrSvc.UpdateOrCreate(context.Background(), nu.Username, nu.Dept, nu.Password)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "user %q saved\n", usr.Username)
	return nil
}
