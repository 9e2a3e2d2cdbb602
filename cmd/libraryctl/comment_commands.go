package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yigit/libraryhub/internal/app/controllers"
	"github.com/yigit/libraryhub/internal/app/models"
)

func commentsCommand() *cli.Command {
	lessonFlag := &cli.Int64Flag{Name: "lesson", Required: true}
	return &cli.Command{
		Name:  "comments",
		Usage: "read and write lesson comments",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "show the comment thread of a lesson",
				Flags: []cli.Flag{lessonFlag},
				Action: func(c *cli.Context) error {
					thread, err := openThread(c)
					if err != nil {
						return err
					}
					printComments(getEnv(c), thread.Comments(), 0)
					return nil
				},
			},
			{
				Name:      "add",
				Usage:     "post a top-level comment",
				ArgsUsage: "<text>",
				Flags:     []cli.Flag{lessonFlag},
				Action: func(c *cli.Context) error {
					thread, err := openThread(c)
					if err != nil {
						return err
					}
					if err := thread.Post(c.Context, strings.Join(c.Args().Slice(), " ")); err != nil {
						return err
					}
					printComments(getEnv(c), thread.Comments(), 0)
					return nil
				},
			},
			{
				Name:      "reply",
				Usage:     "reply to a comment",
				ArgsUsage: "<text>",
				Flags:     []cli.Flag{lessonFlag, &cli.Int64Flag{Name: "parent", Required: true}},
				Action: func(c *cli.Context) error {
					thread, err := openThread(c)
					if err != nil {
						return err
					}
					thread.OpenReply(c.Int64("parent"))
					if err := thread.Reply(c.Context, strings.Join(c.Args().Slice(), " ")); err != nil {
						return err
					}
					printComments(getEnv(c), thread.Comments(), 0)
					return nil
				},
			},
			{
				Name:      "edit",
				Usage:     "change the text of your comment",
				ArgsUsage: "<text>",
				Flags:     []cli.Flag{lessonFlag, &cli.Int64Flag{Name: "id", Required: true}},
				Action: func(c *cli.Context) error {
					thread, err := openThread(c)
					if err != nil {
						return err
					}
					return thread.Edit(c.Context, c.Int64("id"), strings.Join(c.Args().Slice(), " "))
				},
			},
			{
				Name:  "delete",
				Usage: "delete your comment and its replies",
				Flags: []cli.Flag{lessonFlag, &cli.Int64Flag{Name: "id", Required: true}},
				Action: func(c *cli.Context) error {
					thread, err := openThread(c)
					if err != nil {
						return err
					}
					return thread.Delete(c.Context, c.Int64("id"))
				},
			},
		},
	}
}

func openThread(c *cli.Context) (*controllers.CommentThread, error) {
	lessonID := c.Int64("lesson")
	if err := requirePage(c, fmt.Sprintf("/lessons/%d", lessonID)); err != nil {
		return nil, err
	}
	thread := getEnv(c).deps.CommentThread(lessonID)
	if err := thread.Load(c.Context); err != nil {
		return nil, err
	}
	return thread, nil
}

func printComments(e *env, comments []models.Comment, depth int) {
	if depth == 0 && len(comments) == 0 {
		fmt.Fprintln(e.out, "No comments yet.")
		return
	}
	indent := strings.Repeat("    ", depth)
	for _, cm := range comments {
		fmt.Fprintf(e.out, "%s#%d %s (%s)\n%s  %s\n", indent, cm.CommentID, cm.Author, cm.CreatedAt.Local().Format("2006-01-02 15:04"), indent, cm.Content)
		printComments(e, cm.Replies, depth+1)
	}
}
