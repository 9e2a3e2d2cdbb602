package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/app/routes"
)

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in with username and password",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}},
			&cli.StringFlag{Name: "password", Usage: "read from a prompt when omitted", EnvVars: []string{"LIBRARY_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			if err := requirePage(c, routes.PathLogin); err != nil {
				return err
			}
			e := getEnv(c)

			username := c.String("username")
			if username == "" {
				var err error
				if username, err = prompt(e, "Username: "); err != nil {
					return err
				}
			}
			password := c.String("password")
			if password == "" {
				var err error
				if password, err = promptPassword(e, "Password: "); err != nil {
					return err
				}
			}

			res, err := e.deps.AuthController().Login(c.Context, dto.LoginRequest{Username: username, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Signed in as %s (%s). Home: %s\n", res.User.DisplayName(), res.User.Role, res.Redirect)
			return nil
		},
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create a student account; a verification code is sent by email",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
			&cli.StringFlag{Name: "full-name", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", EnvVars: []string{"LIBRARY_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			if err := requirePage(c, routes.PathRegister); err != nil {
				return err
			}
			e := getEnv(c)

			password := c.String("password")
			if password == "" {
				var err error
				if password, err = promptPassword(e, "Password: "); err != nil {
					return err
				}
			}

			res, err := e.deps.AuthController().Register(c.Context, dto.RegisterRequest{
				Username: c.String("username"),
				FullName: c.String("full-name"),
				Email:    c.String("email"),
				Password: password,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Account %d created. Verify it with:\n  libraryctl verify-otp --user-id %d --code <6 digits>\n", res.UserID, res.UserID)
			return nil
		},
	}
}

func verifyOTPCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify-otp",
		Usage: "confirm a registration with the emailed code",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "user-id", Required: true},
			&cli.StringFlag{Name: "code", Usage: "six digits; read from a prompt when omitted"},
		},
		Action: func(c *cli.Context) error {
			e := getEnv(c)
			code := c.String("code")
			if code == "" {
				var err error
				if code, err = prompt(e, "Code: "); err != nil {
					return err
				}
			}

			otp := e.deps.OTPController(c.Int64("user-id"))
			otp.Paste(strings.TrimSpace(code))
			redirect, err := otp.Submit(c.Context)
			if err != nil {
				return err
			}
			user := e.deps.Session.CurrentUser()
			fmt.Fprintf(e.out, "Verified. Signed in as %s. Home: %s\n", user.DisplayName(), redirect)
			return nil
		},
	}
}

func resendOTPCommand() *cli.Command {
	return &cli.Command{
		Name:  "resend-otp",
		Usage: "send a new verification code",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "user-id", Required: true},
		},
		Action: func(c *cli.Context) error {
			return getEnv(c).deps.OTPController(c.Int64("user-id")).Resend(c.Context)
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "end the session and reset preferences",
		Action: func(c *cli.Context) error {
			e := getEnv(c)
			if err := e.deps.AuthController().Logout(c.Context); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "Signed out.")
			return nil
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the signed-in user and preferences",
		Action: func(c *cli.Context) error {
			e := getEnv(c)
			prefs := e.deps.Session.Preferences()
			user := e.deps.Session.CurrentUser()
			if user == nil {
				fmt.Fprintf(e.out, "Not signed in (theme %s, locale %s)\n", prefs.Theme, prefs.Locale)
				return nil
			}
			fmt.Fprintf(e.out, "%s <%s>\nid: %d\nrole: %s\ntheme: %s\nlocale: %s\n",
				user.DisplayName(), user.Email, user.ID, user.Role, prefs.Theme, prefs.Locale)
			return nil
		},
	}
}

func prompt(e *env, label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := bufio.NewReader(e.in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword hides input on a terminal and falls back to a plain read for pipes
func promptPassword(e *env, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if e.in != os.Stdin || !term.IsTerminal(fd) {
		return prompt(e, label)
	}
	fmt.Fprint(os.Stderr, label)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}
