package inmemdb

import (
	"sync"

	"github.com/Dharshini-7v/report-card/core/report"
	"github.com/Dharshini-7v/report-card/core/user"
)

type (
	DB struct {
		user   *userTable
		report *reportTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User // {username: User}
	}

	reportTable struct {
		sync.RWMutex
		table map[string]*report.Report // {owner: Report}
	}
)

func Open() *DB {
	return &DB{
		user:   &userTable{table: make(map[string]*user.User)},
		report: &reportTable{table: make(map[string]*report.Report)},
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()

	db.report.Lock()
	db.report.table = make(map[string]*report.Report)
	db.report.Unlock()
}
