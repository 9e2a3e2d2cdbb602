package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func prefsCommand() *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "display preferences; reset on logout",
		Subcommands: []*cli.Command{
			{
				Name:      "set-theme",
				ArgsUsage: "<theme>",
				Action: func(c *cli.Context) error {
					theme := c.Args().First()
					if theme == "" {
						return cli.Exit("a theme is required", 2)
					}
					e := getEnv(c)
					if err := e.deps.Session.SetTheme(c.Context, theme); err != nil {
						return err
					}
					fmt.Fprintf(e.out, "Theme set to %s.\n", theme)
					return nil
				},
			},
			{
				Name:      "set-locale",
				ArgsUsage: "<locale>",
				Usage:     "language sent as Accept-Language",
				Action: func(c *cli.Context) error {
					locale := c.Args().First()
					if locale == "" {
						return cli.Exit("a locale is required", 2)
					}
					e := getEnv(c)
					if err := e.deps.Session.SetLocale(c.Context, locale); err != nil {
						return err
					}
					fmt.Fprintf(e.out, "Locale set to %s.\n", locale)
					return nil
				},
			},
		},
	}
}
