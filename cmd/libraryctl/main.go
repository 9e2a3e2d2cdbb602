// Command libraryctl is a terminal front end for the library platform.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yigit/libraryhub/internal/app/controllers"
	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/routes"
	"github.com/yigit/libraryhub/internal/bootstrap"
	"github.com/yigit/libraryhub/internal/session"
)

const envKey = "env"

// env is shared by every command of one invocation
type env struct {
	deps *bootstrap.ClientDependencies
	out  io.Writer
	in   io.Reader
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "libraryctl",
		Usage: "sign in, browse lessons, comment and review books from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: bootstrap.DefaultConfigPath, Usage: "path to the YAML config", EnvVars: []string{"LIBRARY_CONFIG"}},
		},
		Before: setup,
		After:  teardown,
		Commands: []*cli.Command{
			loginCommand(),
			registerCommand(),
			verifyOTPCommand(),
			resendOTPCommand(),
			logoutCommand(),
			whoamiCommand(),
			lessonsCommand(),
			commentsCommand(),
			reviewsCommand(),
			resourcesCommand(),
			prefsCommand(),
		},
	}
}

func setup(c *cli.Context) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return err
	}

	errOut := c.App.ErrWriter
	if errOut == nil {
		errOut = os.Stderr
	}
	nav := session.NavigatorFunc(func(path string) {
		fmt.Fprintf(errOut, "Your session has ended. Run `libraryctl login` to continue (%s).\n", path)
	})
	notifier := controllers.NotifierFunc(func(level controllers.NotificationLevel, message string) {
		fmt.Fprintf(errOut, "[%s] %s\n", level, message)
	})

	deps, err := bootstrap.BuildClient(c.Context, cfg, lgr, nav, notifier)
	if err != nil {
		return err
	}

	out := c.App.Writer
	if out == nil {
		out = os.Stdout
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[envKey] = &env{deps: deps, out: out, in: os.Stdin}
	return nil
}

func teardown(c *cli.Context) error {
	if e, ok := c.App.Metadata[envKey].(*env); ok {
		e.deps.Close()
	}
	return nil
}

func getEnv(c *cli.Context) *env {
	return c.App.Metadata[envKey].(*env)
}

// requirePage runs the route guard for the page a command stands for
func requirePage(c *cli.Context, path string) error {
	d := getEnv(c).deps.Guard.Check(path)
	if d.Allowed {
		return nil
	}
	switch {
	case d.Redirect == session.LoginPath:
		return cli.Exit("you are not signed in; run `libraryctl login` first", 2)
	case path == routes.PathLogin || path == routes.PathRegister:
		return cli.Exit("you are already signed in; run `libraryctl logout` first", 2)
	}
	return cli.Exit(fmt.Sprintf("%s is not available for your role (home: %s)", path, d.Redirect), 2)
}

// staffPage is the editing area of the signed-in staff member
func staffPage(c *cli.Context, page string) string {
	if u := getEnv(c).deps.Session.CurrentUser(); u != nil && u.Role == models.RoleAdmin {
		return "/admin/" + page
	}
	return "/librarian/" + page
}
