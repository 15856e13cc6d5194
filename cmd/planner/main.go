// Command planner is a terminal front-end for the task API: list the board
// with filters and grouping, add and edit tasks, and show dashboard stats.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gofrs/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"planner-app/internal/api"
	"planner-app/internal/config"
	"planner-app/internal/controller"
	"planner-app/internal/models"
	"planner-app/internal/query"
)

const dateLayout = "2006-01-02"

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	client := api.NewClient(api.ClientConfig{
		BaseURL:        cfg.Client.BaseURL,
		Timeout:        cfg.Client.Timeout,
		RequestsPerSec: cfg.Client.RequestsPerSec,
		Burst:          cfg.Client.Burst,
	}, logger)

	ctrl := controller.New(client, uuid.Must(uuid.NewV4()), logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var cmdErr error
	switch os.Args[1] {
	case "list":
		cmdErr = runList(ctx, ctrl, os.Args[2:])
	case "add":
		cmdErr = runAdd(ctx, ctrl, os.Args[2:])
	case "complete":
		cmdErr = runComplete(ctx, ctrl, os.Args[2:])
	case "delete":
		cmdErr = runDelete(ctx, ctrl, os.Args[2:])
	case "stats":
		cmdErr = runStats(ctx, ctrl)
	default:
		usage()
		os.Exit(2)
	}

	if cmdErr != nil {
		fmt.Fprintln(os.Stderr, "error:", cmdErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: planner <command> [flags]

commands:
  list      show the board (flags: -search, -category, -filter, -sort)
  add       create a task (flags: -title, -desc, -category, -due, -minutes, -difficulty)
  complete  mark a task completed (flag: -id)
  delete    remove a task (flag: -id)
  stats     show the dashboard summary`)
}

func runList(ctx context.Context, ctrl *controller.Controller, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	search := fs.String("search", "", "filter by title or description substring")
	category := fs.String("category", "all", "category filter (all, work, study, exercise, hobby, other)")
	bucket := fs.String("filter", "all", "bucket filter (all, today, tomorrow, overdue, completed, pending)")
	sortKey := fs.String("sort", "dueDate", "sort key (dueDate, createdAt, category)")
	fs.Parse(args)

	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	ctrl.SetSearchText(*search)
	if err := ctrl.SetCategory(models.Category(*category)); err != nil {
		return err
	}
	if err := ctrl.SetBucket(models.FilterBucket(*bucket)); err != nil {
		return err
	}
	if err := ctrl.SetSortKey(models.SortKey(*sortKey)); err != nil {
		return err
	}

	result := ctrl.View()
	printCounts(result)

	if models.FilterBucket(*bucket) == models.BucketAll {
		printGroup("Overdue", result.Groups.Overdue)
		printGroup("Today", result.Groups.Today)
		printGroup("Upcoming", result.Groups.Upcoming)
		return nil
	}
	printGroup(titleCase(*bucket), result.Tasks)
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func printCounts(result query.Result) {
	var parts []string
	for _, bucket := range models.Buckets() {
		parts = append(parts, fmt.Sprintf("%s: %d", bucket, result.Counts[bucket]))
	}
	fmt.Println(strings.Join(parts, "  "))
	fmt.Println()
}

func printGroup(title string, tasks []models.Task) {
	fmt.Printf("%s (%d)\n", title, len(tasks))
	if len(tasks) == 0 {
		fmt.Println("  no tasks")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for _, task := range tasks {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\tdue %s\n",
			task.ID, task.Title, task.Category, task.Status,
			task.DueDate.Format(dateLayout))
	}
	w.Flush()
}

func runAdd(ctx context.Context, ctrl *controller.Controller, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "task title")
	desc := fs.String("desc", "", "task description")
	category := fs.String("category", "other", "category")
	due := fs.String("due", "", "due date (YYYY-MM-DD, default today)")
	minutes := fs.Int("minutes", 0, "estimated minutes")
	difficulty := fs.Int("difficulty", 0, "difficulty 1-5")
	fs.Parse(args)

	dueDate := time.Now()
	if *due != "" {
		parsed, err := time.ParseInLocation(dateLayout, *due, time.Local)
		if err != nil {
			return fmt.Errorf("invalid due date %q: %w", *due, err)
		}
		dueDate = parsed
	}

	task, err := ctrl.CreateTask(ctx, models.CreateTaskRequest{
		Title:            *title,
		Description:      *desc,
		Category:         models.Category(*category),
		DueDate:          dueDate,
		EstimatedMinutes: *minutes,
		Difficulty:       *difficulty,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created %s: %s\n", task.ID, task.Title)
	return nil
}

func runComplete(ctx context.Context, ctrl *controller.Controller, args []string) error {
	fs := flag.NewFlagSet("complete", flag.ExitOnError)
	rawID := fs.String("id", "", "task id")
	fs.Parse(args)

	id, err := uuid.FromString(*rawID)
	if err != nil {
		return fmt.Errorf("invalid task id %q", *rawID)
	}

	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	task, err := ctrl.CompleteTask(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("completed %s: %s\n", task.ID, task.Title)
	return nil
}

func runDelete(ctx context.Context, ctrl *controller.Controller, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	rawID := fs.String("id", "", "task id")
	fs.Parse(args)

	id, err := uuid.FromString(*rawID)
	if err != nil {
		return fmt.Errorf("invalid task id %q", *rawID)
	}

	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	if err := ctrl.DeleteTask(ctx, id); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", id)
	return nil
}

func runStats(ctx context.Context, ctrl *controller.Controller) error {
	stats, err := ctrl.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("tasks: %d total, %d completed (%d%%)\n",
		stats.TotalTasks, stats.CompletedTasks, stats.CompletionRate)
	fmt.Printf("streak: %d current, %d best\n", stats.CurrentStreak, stats.BestStreak)
	fmt.Printf("today: %d tasks\n", stats.TodayTasks)

	fmt.Print("last 7 days:")
	for _, n := range stats.WeeklyCompletion {
		fmt.Printf(" %d", n)
	}
	fmt.Println()

	for _, cs := range stats.CategoryStats {
		fmt.Printf("  %-10s %d/%d\n", cs.Category, cs.Completed, cs.Total)
	}
	return nil
}
