package cli

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/timetable/internal/auth"
	"github.com/julianstephens/timetable/internal/logger"
)

type CredentialFlags struct {
	Email    string `short:"e" help:"Account email."`
	Password string `help:"Account password (prompted when omitted)." env:"TIMETABLE_PASSWORD"`
}

// prompt asks for whichever credential is missing. Non-interactive runs
// pass the blanks through so the authenticator reports them.
func (f *CredentialFlags) prompt(ctx *Context, title string) error {
	if !ctx.Interactive || (f.Email != "" && f.Password != "") {
		return nil
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(&f.Email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&f.Password),
		).Title(title),
	)
	return form.Run()
}

type LoginCmd struct {
	Credentials CredentialFlags `embed:""`
	IDToken     string          `name:"id-token" help:"Sign in with an identity token issued by the configured provider."`
}

func (c *LoginCmd) Run(ctx *Context) error {
	var (
		session *auth.Session
		err     error
	)
	if c.IDToken != "" {
		session, err = ctx.Auth.SignInWithProvider(ctx.Context(), c.IDToken)
	} else {
		if err := c.Credentials.prompt(ctx, "Sign in"); err != nil {
			return err
		}
		session, err = ctx.Auth.SignIn(ctx.Context(), c.Credentials.Email, c.Credentials.Password)
	}
	if err := reportSession(ctx, session, err); err != nil {
		return err
	}
	ctx.printf("✓ Signed in as %s\n", session.CurrentUser().Email)
	return nil
}

// reportSession surfaces a sign-in whose session could not be kept for the
// next command.
func reportSession(ctx *Context, session *auth.Session, err error) error {
	if errors.Is(err, auth.ErrSessionNotSaved) && session != nil {
		ctx.printf("⚠ Authenticated as %s, but the session was not saved. Later commands will not be signed in.\n", session.CurrentUser().Email)
	}
	return err
}

type SignupCmd struct {
	Credentials CredentialFlags `embed:""`
}

func (c *SignupCmd) Run(ctx *Context) error {
	if err := c.Credentials.prompt(ctx, "Create account"); err != nil {
		return err
	}
	session, err := ctx.Auth.SignUp(ctx.Context(), c.Credentials.Email, c.Credentials.Password)
	if err := reportSession(ctx, session, err); err != nil {
		return err
	}
	ctx.printf("✓ Account created, signed in as %s\n", session.CurrentUser().Email)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	if err := ctx.Auth.Logout(); err != nil {
		return err
	}
	ctx.printf("Signed out\n")
	return nil
}

type WhoamiCmd struct {
	Refresh bool `help:"Fetch the user record from the backend instead of the local cache."`
}

func (c *WhoamiCmd) Run(ctx *Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	user := session.CurrentUser()
	if c.Refresh {
		remote, err := ctx.Client(session).GetUser(ctx.Context(), user.UID)
		if err != nil {
			logger.Warn("Failed to refresh user record", "error", err)
			ctx.printf("⚠ Could not reach the backend, showing cached identity\n")
		} else {
			user = remote
		}
	}
	ctx.printf("Name:  %s\nEmail: %s\nUID:   %s\n", user.Name, user.Email, user.UID)
	return nil
}
