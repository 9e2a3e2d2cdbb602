package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yigit/libraryhub/internal/pkg/logger"
	"github.com/yigit/libraryhub/internal/server"
)

func main() {
	app := &cli.App{
		Name:  "mockapi",
		Usage: "in-memory development backend for the library API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "configs/config.yaml", Usage: "path to the YAML config", EnvVars: []string{"LIBRARY_CONFIG"}},
			&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "listen port, overrides server.port"},
			&cli.BoolFlag{Name: "seed", Value: true, Usage: "create default accounts and a sample lesson"},
		},
		Action: func(c *cli.Context) error {
			srv, err := server.NewServer(server.Options{
				ConfigPath: c.String("config"),
				Port:       c.String("port"),
				Seed:       c.Bool("seed"),
			})
			if err != nil {
				return err
			}
			return srv.Run()
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("Development backend stopped with an error")
		os.Exit(1)
	}
}
