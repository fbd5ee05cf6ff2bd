package logsvc

import (
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/Dharshini-7v/report-card/core"
	"github.com/Dharshini-7v/report-card/core/report"
	"github.com/Dharshini-7v/report-card/core/user"
)

type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

// Enable turns reporting to rollbar on or off. Messages are always printed.
func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// event is one log call, its args sorted by kind.
// Accepted args: error, user.User, report.Report, *http.Request, map[string]interface{}.
// Anything else is printed but not sent.
type event struct {
	msg    string
	err    error
	usr    *user.User
	req    *http.Request
	extras map[string]interface{}
	other  []interface{}
}

func newEvent(msg string, args []interface{}) event {
	ev := event{msg: msg}
	for _, arg := range args {
		switch v := arg.(type) {
		case error:
			if ev.err == nil {
				ev.err = v
			} else {
				ev.other = append(ev.other, v)
			}
		case user.User:
			if ev.usr == nil { // the first User is the person
				usr := v
				ev.usr = &usr
			}
		case report.Report:
			ev.extend(reportExtras(v))
		case *http.Request:
			ev.req = v
		case map[string]interface{}:
			ev.extend(v)
		default:
			ev.other = append(ev.other, v)
		}
	}
	return ev
}

// extend merges m into the event extras; later keys win.
func (ev *event) extend(m map[string]interface{}) {
	if len(m) == 0 {
		return
	}
	if ev.extras == nil {
		ev.extras = make(map[string]interface{}, len(m))
	}
	for k, v := range m {
		ev.extras[k] = v
	}
}

// reportExtras identifies a report without its student records.
func reportExtras(rep report.Report) map[string]interface{} {
	return map[string]interface{}{
		"owner":         rep.Owner,
		"report_id":     rep.ID,
		"students":      len(rep.Students),
		"class_average": rep.Summary.ClassAverage,
	}
}

// rollbarArgs is what rollbar.Log understands; it keeps a single extras map.
func (ev event) rollbarArgs() []interface{} {
	args := []interface{}{ev.msg}
	if ev.err != nil {
		args = append(args, ev.err)
	}
	if ev.req != nil {
		args = append(args, ev.req)
	}
	if ev.extras != nil {
		args = append(args, ev.extras)
	}
	return args
}

func (l RollbarLogger) log(level, msg string, args []interface{}) {
	ev := newEvent(msg, args)
	if ev.usr != nil {
		rollbar.SetPerson(ev.usr.Username, ev.usr.Username, "")
	} else {
		rollbar.ClearPerson()
	}
	rollbar.Log(level, ev.rollbarArgs()...)
	l.print(ev)
}

func (l RollbarLogger) print(ev event) {
	l.std.Println(ev.msg)
	if ev.err != nil {
		l.std.Printf("%+v\n", ev.err)
	}
	if ev.usr != nil { // never the password hash
		l.std.Printf("user: %s\n", ev.usr.Username)
	}
	if ev.req != nil {
		l.std.Printf("request: %s %s\n", ev.req.Method, ev.req.URL.Path)
	}
	if len(ev.extras) > 0 {
		keys := make([]string, 0, len(ev.extras))
		for k := range ev.extras {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, ev.extras[k]))
		}
		l.std.Println(strings.Join(pairs, " "))
	}
	for _, arg := range ev.other {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	l.log(rollbar.DEBUG, msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	l.log(rollbar.INFO, msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	l.log(rollbar.WARN, msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	l.log(rollbar.ERR, msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
