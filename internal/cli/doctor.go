package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/timetable/internal/api"
	"github.com/julianstephens/timetable/internal/keyring"
	"github.com/julianstephens/timetable/internal/utils"
)

var errSkipped = errors.New("skipped")

type DoctorCmd struct{}

type check struct {
	name    string
	warning bool
	run     func() error
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.printf("Running diagnostics...\n\n")

	apiUp := false
	keyringUp := false
	signedIn := false

	checks := []check{
		{name: "Timezone", run: func() error {
			if !utils.ValidateTimezone(ctx.Timezone) {
				return fmt.Errorf("unknown timezone %q", ctx.Timezone)
			}
			return nil
		}},
		{name: "Day boundary", warning: true, run: func() error {
			now, err := ctx.Now()
			if err != nil {
				return errSkipped
			}
			if sys := utils.Today(); sys != now.Weekday() {
				return fmt.Errorf("system clock says %s but %s is %s; today follows --timezone", sys, ctx.Timezone, now.Weekday())
			}
			return nil
		}},
		{name: "Backend reachable", warning: true, run: func() error {
			client := api.New(ctx.APIURL, nil, ctx.apiOptions()...)
			if err := client.Health(ctx.Context()); err != nil {
				return fmt.Errorf("%s: %w (commands will run in offline mode)", client.BaseURL(), err)
			}
			apiUp = true
			return nil
		}},
		{name: "Keyring available", run: func() error {
			if !keyring.IsAvailable() {
				return keyring.ErrKeyringUnavailable
			}
			keyringUp = true
			return nil
		}},
		{name: "Signed in", warning: true, run: func() error {
			if !keyringUp {
				return errSkipped
			}
			if _, err := ctx.Session(); err != nil {
				return err
			}
			signedIn = true
			return nil
		}},
		{name: "Session accepted", run: func() error {
			if !apiUp || !signedIn {
				return errSkipped
			}
			session, err := ctx.Session()
			if err != nil {
				return err
			}
			_, err = ctx.Client(session).GetUser(ctx.Context(), session.UserID())
			return err
		}},
	}

	hasError := false
	for _, c := range checks {
		err := c.run()
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errSkipped):
			ctx.printf("⊘ %s: SKIPPED\n", c.name)
		case c.warning:
			ctx.printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			ctx.printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			hasError = true
		}
	}

	ctx.printf("\n")
	if hasError {
		ctx.printf("Diagnostics completed with errors.\n")
		return errors.New("one or more health checks failed")
	}
	ctx.printf("All diagnostics passed!\n")
	return nil
}
