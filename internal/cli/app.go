// Package cli implements the atriumctl command surface on top of the
// client session controller.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/atrium-app/atrium/internal/client"
)

// App wires the session controller to the command line.
type App struct {
	session *client.Session
	api     *client.HTTPAPI
	store   client.TokenStore
	out     io.Writer
	errOut  io.Writer
}

// printNavigator renders navigation side effects as output lines, the CLI
// stand-in for switching views.
type printNavigator struct {
	out io.Writer
}

func (n printNavigator) To(route client.Route) {
	fmt.Fprintf(n.out, "-> %s\n", route)
}

// NewApp constructs the CLI application from client configuration.
func NewApp(cfg *client.Config, logger *slog.Logger, out, errOut io.Writer) (*App, error) {
	path, err := cfg.TokenPath()
	if err != nil {
		return nil, fmt.Errorf("resolve token path: %w", err)
	}
	store := client.NewFileTokenStore(path)
	api := client.NewHTTPAPI(cfg)
	session := client.NewSession(api, store, printNavigator{out: out}, logger)
	return &App{session: session, api: api, store: store, out: out, errOut: errOut}, nil
}

// Run dispatches a subcommand. It returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.usage()
		return 2
	}
	switch args[0] {
	case "login":
		return a.login(ctx, args[1:])
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "register":
		return a.register(ctx, args[1:])
	default:
		fmt.Fprintf(a.errOut, "unknown command %q\n", args[0])
		a.usage()
		return 2
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.errOut, "usage: atriumctl <login|logout|whoami|register> [flags]")
}

func (a *App) login(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *email == "" || *password == "" {
		fmt.Fprintln(a.errOut, "login requires -email and -password")
		return 2
	}
	if err := a.session.Login(ctx, *email, *password); err != nil {
		fmt.Fprintln(a.errOut, err)
		return 1
	}
	user := a.session.User()
	fmt.Fprintf(a.out, "logged in as %s %s\n", user.FirstName, user.LastName)
	return 0
}

func (a *App) logout(ctx context.Context) int {
	if token := a.store.Get(); token != "" {
		// Best effort: the local session is cleared regardless.
		_ = a.api.Logout(ctx, token)
	}
	a.session.Logout()
	fmt.Fprintln(a.out, "logged out")
	return 0
}

func (a *App) whoami(ctx context.Context) int {
	a.session.Resolve(ctx)
	user := a.session.User()
	if user == nil {
		fmt.Fprintln(a.errOut, "not logged in")
		return 1
	}
	fmt.Fprintf(a.out, "%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	return 0
}

func (a *App) register(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	first := fs.String("firstname", "", "first name")
	last := fs.String("lastname", "", "last name")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *email == "" || *password == "" || *first == "" || *last == "" {
		fmt.Fprintln(a.errOut, "register requires -email, -password, -firstname and -lastname")
		return 2
	}
	profile := client.Profile{Email: *email, Password: *password, FirstName: *first, LastName: *last}
	if err := a.session.Register(ctx, profile); err != nil {
		fmt.Fprintln(a.errOut, err)
		return 1
	}
	fmt.Fprintln(a.out, "account created, you can log in now")
	return 0
}
