package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yigit/libraryhub/internal/app/controllers"
	"github.com/yigit/libraryhub/internal/app/models"
)

func resourcesCommand() *cli.Command {
	return &cli.Command{
		Name:  "resources",
		Usage: "manage lesson attachments",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list the resources of a lesson",
				Flags: []cli.Flag{&cli.Int64Flag{Name: "lesson", Required: true}},
				Action: func(c *cli.Context) error {
					if err := requirePage(c, fmt.Sprintf("/lessons/%d", c.Int64("lesson"))); err != nil {
						return err
					}
					e := getEnv(c)
					resources, err := e.deps.Services.Resources.List(c.Context, c.Int64("lesson"))
					if err != nil {
						return err
					}
					if len(resources) == 0 {
						fmt.Fprintln(e.out, "No resources.")
					}
					for _, r := range resources {
						fmt.Fprintf(e.out, "%5d  %-6s %s  %s\n", r.ID, r.Type, r.Title, r.URL)
					}
					return nil
				},
			},
			{
				Name:      "upload",
				Usage:     "attach a file to a lesson",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "lesson", Required: true},
					&cli.StringFlag{Name: "title", Usage: "defaults to the file name"},
					&cli.StringFlag{Name: "type", Usage: "VIDEO, PDF, DOCX, SLIDE or IMAGE; guessed from the extension"},
				},
				Action: func(c *cli.Context) error {
					if err := requirePage(c, staffPage(c, "lessons")); err != nil {
						return err
					}
					name := c.Args().First()
					if name == "" {
						return cli.Exit("a file to upload is required", 2)
					}
					f, err := os.Open(name)
					if err != nil {
						return err
					}
					defer f.Close()

					e := getEnv(c)
					editor := e.deps.LessonEditor(0, c.Int64("lesson"), false)
					if _, err := editor.Load(c.Context); err != nil {
						return err
					}
					err = editor.Attach(controllers.PendingAttachment{
						Title:    c.String("title"),
						Type:     models.ResourceType(c.String("type")),
						FileName: name,
						Reader:   f,
					})
					if err != nil {
						return err
					}
					res, err := editor.Save(c.Context)
					if err != nil {
						return err
					}
					for _, w := range res.Warnings {
						return fmt.Errorf("upload failed: %s", w)
					}
					for _, r := range res.Uploaded {
						fmt.Fprintf(e.out, "Uploaded %s as resource %d: %s\n", r.Title, r.ID, r.URL)
					}
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "remove a resource",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "lesson", Required: true},
					&cli.Int64Flag{Name: "id", Required: true},
				},
				Action: func(c *cli.Context) error {
					if err := requirePage(c, staffPage(c, "lessons")); err != nil {
						return err
					}
					e := getEnv(c)
					editor := e.deps.LessonEditor(0, c.Int64("lesson"), false)
					if err := editor.RemoveResource(c.Context, c.Int64("id")); err != nil {
						return err
					}
					fmt.Fprintf(e.out, "Resource %d removed.\n", c.Int64("id"))
					return nil
				},
			},
		},
	}
}
