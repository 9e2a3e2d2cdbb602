package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yigit/libraryhub/internal/app/controllers"
	"github.com/yigit/libraryhub/internal/app/models"
)

func lessonsCommand() *cli.Command {
	return &cli.Command{
		Name:  "lessons",
		Usage: "browse and edit lessons",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list the lessons of a chapter",
				Flags: []cli.Flag{&cli.Int64Flag{Name: "chapter", Required: true}},
				Action: func(c *cli.Context) error {
					if err := requirePage(c, fmt.Sprintf("/chapters/%d", c.Int64("chapter"))); err != nil {
						return err
					}
					e := getEnv(c)
					lessons, err := e.deps.Services.Lessons.ListByChapter(c.Context, c.Int64("chapter"))
					if err != nil {
						return err
					}
					if len(lessons) == 0 {
						fmt.Fprintln(e.out, "No lessons yet.")
					}
					for _, l := range lessons {
						fmt.Fprintf(e.out, "%5d  %s\n", l.ID, l.Title)
					}
					return nil
				},
			},
			{
				Name:  "show",
				Usage: "show a lesson with its attachments",
				Flags: []cli.Flag{&cli.Int64Flag{Name: "id", Required: true}},
				Action: func(c *cli.Context) error {
					if err := requirePage(c, fmt.Sprintf("/lessons/%d", c.Int64("id"))); err != nil {
						return err
					}
					e := getEnv(c)
					editor := e.deps.LessonEditor(0, c.Int64("id"), true)
					lesson, err := editor.Load(c.Context)
					if err != nil {
						return err
					}
					printLesson(e, lesson, editor)
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "create a lesson and upload attachments",
				Flags: append(lessonFormFlags(), &cli.Int64Flag{Name: "chapter", Required: true}),
				Action: func(c *cli.Context) error {
					return saveLesson(c, c.Int64("chapter"), 0)
				},
			},
			{
				Name:  "update",
				Usage: "edit a lesson; omitted fields keep their value",
				Flags: append(lessonFormFlags(), &cli.Int64Flag{Name: "id", Required: true}),
				Action: func(c *cli.Context) error {
					return saveLesson(c, 0, c.Int64("id"))
				},
			},
			{
				Name:  "delete",
				Usage: "delete a lesson",
				Flags: []cli.Flag{&cli.Int64Flag{Name: "id", Required: true}},
				Action: func(c *cli.Context) error {
					if err := requirePage(c, staffPage(c, "lessons")); err != nil {
						return err
					}
					e := getEnv(c)
					if err := e.deps.LessonEditor(0, c.Int64("id"), false).Delete(c.Context); err != nil {
						return err
					}
					fmt.Fprintf(e.out, "Lesson %d deleted.\n", c.Int64("id"))
					return nil
				},
			},
		},
	}
}

func lessonFormFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title"},
		&cli.StringFlag{Name: "content"},
		&cli.StringFlag{Name: "video", Usage: "YouTube or Vimeo link"},
		&cli.StringFlag{Name: "notes"},
		&cli.StringSliceFlag{Name: "attach", Usage: "file to upload; repeat for more"},
	}
}

func saveLesson(c *cli.Context, chapterID, lessonID int64) error {
	if err := requirePage(c, staffPage(c, "lessons")); err != nil {
		return err
	}
	e := getEnv(c)
	editor := e.deps.LessonEditor(chapterID, lessonID, false)
	if lessonID > 0 {
		if _, err := editor.Load(c.Context); err != nil {
			return err
		}
	}

	form := editor.Form()
	if c.IsSet("title") {
		form.Title = c.String("title")
	}
	if c.IsSet("content") {
		form.Content = c.String("content")
	}
	if c.IsSet("video") {
		form.VideoURL = c.String("video")
	}
	if c.IsSet("notes") {
		form.Notes = c.String("notes")
	}
	if err := editor.SetForm(form); err != nil {
		return err
	}

	for _, name := range c.StringSlice("attach") {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := editor.Attach(controllers.PendingAttachment{FileName: name, Reader: f}); err != nil {
			return err
		}
	}

	res, err := editor.Save(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Lesson %d saved (%d uploaded).\n", res.Lesson.ID, len(res.Uploaded))
	for _, w := range res.Warnings {
		fmt.Fprintf(e.out, "  upload failed: %s\n", w)
	}
	return nil
}

func printLesson(e *env, lesson *models.Lesson, editor *controllers.LessonEditor) {
	fmt.Fprintf(e.out, "%s\n%s\n\n%s\n", lesson.Title, strings.Repeat("=", len(lesson.Title)), lesson.Content)
	if embed, ok := editor.VideoPreview(); ok {
		fmt.Fprintf(e.out, "\nVideo (%s): %s\n", embed.Provider, embed.URL)
	} else if lesson.VideoURL != "" {
		fmt.Fprintf(e.out, "\nVideo: %s\n", lesson.VideoURL)
	}
	if lesson.Notes != "" {
		fmt.Fprintf(e.out, "\nNotes: %s\n", lesson.Notes)
	}
	if resources := editor.Resources(); len(resources) > 0 {
		fmt.Fprintln(e.out, "\nAttachments:")
		for _, r := range resources {
			url := r.URL
			if url == "" {
				url = "(not uploaded)"
			}
			fmt.Fprintf(e.out, "  %5d  %-6s %s  %s\n", r.ID, r.Type, r.Title, url)
		}
	}
}
