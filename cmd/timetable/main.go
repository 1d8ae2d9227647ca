package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/timetable/internal/cli"
	"github.com/julianstephens/timetable/internal/constants"
	"github.com/julianstephens/timetable/internal/errors"
	"github.com/julianstephens/timetable/internal/logger"
)

var CLI struct {
	Version   kong.VersionFlag
	Config    kong.ConfigFlag `help:"JSON config file providing flag defaults."`
	APIURL    string          `name:"api-url" help:"Base URL of the timetable API." env:"TIMETABLE_API_URL" default:"${api_url}"`
	Timezone  string          `help:"IANA timezone that decides which day is today." env:"TIMETABLE_TIMEZONE" default:"Local"`
	Timeout   time.Duration   `help:"Per-request timeout." env:"TIMETABLE_TIMEOUT" default:"${timeout}"`
	Debug     bool            `help:"Log debug output to stderr."`
	ConfigDir string          `name:"config-dir" help:"Directory for logs and local state." type:"path" default:"${config_dir}"`

	Login   cli.LoginCmd   `cmd:"" help:"Sign in with email and password or an identity token."`
	Signup  cli.SignupCmd  `cmd:"" help:"Create an account."`
	Logout  cli.LogoutCmd  `cmd:"" help:"Sign out and clear the cached session."`
	Whoami  cli.WhoamiCmd  `cmd:"" help:"Show the signed-in user."`
	Tui     cli.TUICmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Week    cli.WeekCmd    `cmd:"" help:"Show this week's timetable."`
	Add     cli.AddCmd     `cmd:"" help:"Add an action to this week."`
	Mark    cli.MarkCmd    `cmd:"" help:"Mark today's status for an action."`
	Delete  cli.DeleteCmd  `cmd:"" help:"Delete an action."`
	Profile cli.ProfileCmd `cmd:"" help:"Show completion statistics."`
	Doctor  cli.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Serve   cli.ServeCmd   `cmd:"" help:"Run the timetable API server."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Weekly action tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, constants.DefaultConfigFile),
		kong.Vars{
			"version":    constants.Version,
			"api_url":    constants.DefaultAPIURL,
			"timeout":    constants.RequestTimeout.String(),
			"config_dir": constants.DefaultConfigDir,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: CLI.ConfigDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	base, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := cli.NewContext(base, CLI.APIURL, CLI.Timezone, CLI.ConfigDir, CLI.Timeout)
	appCtx.Debug = CLI.Debug

	if err := ctx.Run(appCtx); err != nil {
		stop()
		errors.Fatal(err)
	}
}
