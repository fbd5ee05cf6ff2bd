package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Dharshini-7v/report-card/core/user"
)

func CreateUser(t *testing.T, repo user.Repository, uname, dept, pwd string, createdAt ...time.Time) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Username:  uname,
		Dept:      dept,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
