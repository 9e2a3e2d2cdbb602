package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yigit/libraryhub/internal/app/controllers"
	"github.com/yigit/libraryhub/internal/app/models/dto"
)

func reviewsCommand() *cli.Command {
	bookFlag := &cli.Int64Flag{Name: "book", Required: true}
	return &cli.Command{
		Name:  "reviews",
		Usage: "read and write book reviews",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "show rating stats and a page of reviews",
				Flags: []cli.Flag{
					bookFlag,
					&cli.IntFlag{Name: "rating", Usage: "only this many stars (3-5); 0 shows all"},
					&cli.StringFlag{Name: "sort", Value: dto.ReviewSortNewest, Usage: "newest or helpful"},
					&cli.IntFlag{Name: "page", Value: 1},
				},
				Action: func(c *cli.Context) error {
					panel, err := openReviews(c)
					if err != nil {
						return err
					}
					if c.IsSet("sort") {
						if err := panel.SetSort(c.Context, c.String("sort")); err != nil {
							return err
						}
					}
					if c.Int("rating") != dto.ReviewFilterAll {
						if err := panel.SetFilter(c.Context, c.Int("rating")); err != nil {
							return err
						}
					}
					if c.Int("page") > 1 {
						if err := panel.LoadPage(c.Context, c.Int("page")); err != nil {
							return err
						}
					}
					printReviews(getEnv(c), panel)
					return nil
				},
			},
			{
				Name:      "submit",
				Usage:     "rate a book; submitting again replaces your review",
				ArgsUsage: "<text>",
				Flags:     []cli.Flag{bookFlag, &cli.IntFlag{Name: "rating", Required: true, Usage: "1-5 stars"}},
				Action: func(c *cli.Context) error {
					panel, err := openReviews(c)
					if err != nil {
						return err
					}
					if err := panel.Submit(c.Context, c.Int("rating"), strings.Join(c.Args().Slice(), " ")); err != nil {
						return err
					}
					printReviews(getEnv(c), panel)
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "delete your review",
				Flags: []cli.Flag{bookFlag},
				Action: func(c *cli.Context) error {
					panel, err := openReviews(c)
					if err != nil {
						return err
					}
					return panel.Delete(c.Context)
				},
			},
		},
	}
}

func openReviews(c *cli.Context) (*controllers.ReviewController, error) {
	bookID := c.Int64("book")
	if err := requirePage(c, fmt.Sprintf("/books/%d", bookID)); err != nil {
		return nil, err
	}
	panel := getEnv(c).deps.ReviewController(bookID)
	if err := panel.Load(c.Context); err != nil {
		return nil, err
	}
	return panel, nil
}

func printReviews(e *env, panel *controllers.ReviewController) {
	stats := panel.Stats()
	fmt.Fprintf(e.out, "Average %.1f from %d reviews\n", stats.Average, stats.Total)
	for stars := 5; stars >= 1; stars-- {
		fmt.Fprintf(e.out, "  %d★ %s %d\n", stars, strings.Repeat("█", bar(stats.Distribution[stars], stats.Total)), stats.Distribution[stars])
	}

	if own := panel.OwnReview(); own != nil {
		fmt.Fprintf(e.out, "\nYour review: %d★ %s\n", own.RatingValue, own.Description)
	}

	page := panel.Page()
	if page == nil || len(page.PageList) == 0 {
		fmt.Fprintln(e.out, "\nNo reviews match.")
		return
	}
	fmt.Fprintf(e.out, "\nPage %d of %d (filter %d, sort %s)\n", page.PageNumber, page.TotalPages, panel.Filter(), panel.Sort())
	for _, r := range page.PageList {
		fmt.Fprintf(e.out, "  %d★ %s, %s\n    %s\n", r.RatingValue, r.StudentName, r.CreatedAt.Local().Format("2006-01-02"), r.Description)
	}
}

// bar scales a count to at most 20 cells
func bar(count, total int) int {
	if total == 0 {
		return 0
	}
	return count * 20 / total
}
