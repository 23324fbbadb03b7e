package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/asalgado/tasq/internal/api"
	"github.com/asalgado/tasq/internal/tasks"
)

// NewTasksCommand returns the tasks subcommand.
func NewTasksCommand() *cli.Command {
	return &cli.Command{
		Name:  "tasks",
		Usage: "Manage your tasks",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tasks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "all, pending or completed",
						Value:   string(tasks.FilterAll),
					},
				},
				Action: runTasksList,
			},
			{
				Name:      "add",
				Usage:     "Create a task",
				ArgsUsage: "<title> [description]",
				Action:    runTasksAdd,
			},
			{
				Name:      "show",
				Usage:     "Show task details",
				ArgsUsage: "<task_id>",
				Action:    runTasksShow,
			},
			{
				Name:      "edit",
				Usage:     "Update title or description",
				ArgsUsage: "<task_id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "New title"},
					&cli.StringFlag{Name: "description", Usage: "New description"},
				},
				Action: runTasksEdit,
			},
			{
				Name:      "done",
				Usage:     "Toggle completion",
				ArgsUsage: "<task_id>",
				Action:    runTasksDone,
			},
			{
				Name:      "rm",
				Usage:     "Delete a task",
				ArgsUsage: "<task_id>",
				Action:    runTasksRemove,
			},
		},
		DefaultCommand: "list",
	}
}

func runTasksList(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.requireSession(); err != nil {
		return err
	}

	filter, err := tasks.ParseFilter(cmd.String("filter"))
	if err != nil {
		return err
	}

	if err := a.container.FetchAll(ctx); err != nil {
		return fmt.Errorf("%s", api.Message(err))
	}
	a.container.SetFilter(filter)

	list := a.container.Visible()
	if len(list) == 0 {
		switch filter {
		case tasks.FilterCompleted:
			fmt.Println("No completed tasks.")
		case tasks.FilterPending:
			fmt.Println("No pending tasks.")
		default:
			fmt.Println("No tasks yet.")
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tCREATED\tTITLE")
	for _, t := range list {
		done := " "
		if t.Done {
			done = "x"
		}
		fmt.Fprintf(w, "%s\t[%s]\t%s\t%s\n",
			shortID(t.ID),
			done,
			t.CreatedAt.Format("2006-01-02"),
			t.Title,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	done, pending := tasks.Stats(a.container.State().Tasks)
	fmt.Printf("\n%d completed, %d pending\n", done, pending)
	return nil
}

func runTasksAdd(ctx context.Context, cmd *cli.Command) error {
	title := cmd.Args().Get(0)
	if title == "" {
		return fmt.Errorf("usage: tasq tasks add <title> [description]")
	}
	description := strings.Join(cmd.Args().Slice()[1:], " ")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.requireSession(); err != nil {
		return err
	}

	if err := a.container.Create(ctx, title, description); err != nil {
		return fmt.Errorf("%s", api.Message(err))
	}
	fmt.Println("Task created.")
	return nil
}

func runTasksShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: tasq tasks show <task_id>")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.requireSession(); err != nil {
		return err
	}

	t, err := a.resolveTask(ctx, id)
	if err != nil {
		return err
	}

	status := "pending"
	if t.Done {
		status = "completed"
	}
	fmt.Printf("ID:        %s\n", t.ID)
	fmt.Printf("Title:     %s\n", t.Title)
	fmt.Printf("Status:    %s\n", status)
	fmt.Printf("Created:   %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated:   %s\n", t.UpdatedAt.Format("2006-01-02 15:04:05"))
	if t.Description != "" {
		fmt.Printf("\nDescription:\n%s\n", t.Description)
	}
	return nil
}

func runTasksEdit(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: tasq tasks edit <task_id> [--title ...] [--description ...]")
	}

	patch := api.TaskPatch{}
	if cmd.IsSet("title") {
		title := cmd.String("title")
		patch.Title = &title
	}
	if cmd.IsSet("description") {
		description := cmd.String("description")
		patch.Description = &description
	}
	if patch.Title == nil && patch.Description == nil {
		return fmt.Errorf("nothing to change; pass --title or --description")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.requireSession(); err != nil {
		return err
	}

	t, err := a.resolveTask(ctx, id)
	if err != nil {
		return err
	}

	if err := a.container.Update(ctx, t.ID, patch); err != nil {
		return fmt.Errorf("%s", api.Message(err))
	}
	fmt.Println("Task updated.")
	return nil
}

func runTasksDone(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: tasq tasks done <task_id>")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.requireSession(); err != nil {
		return err
	}

	t, err := a.resolveTask(ctx, id)
	if err != nil {
		return err
	}

	if err := a.container.Toggle(ctx, t.ID); err != nil {
		return fmt.Errorf("%s", api.Message(err))
	}
	if t.Done {
		fmt.Printf("Task %s reopened.\n", shortID(t.ID))
	} else {
		fmt.Printf("Task %s completed.\n", shortID(t.ID))
	}
	return nil
}

func runTasksRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: tasq tasks rm <task_id>")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.requireSession(); err != nil {
		return err
	}

	t, err := a.resolveTask(ctx, id)
	if err != nil {
		return err
	}

	if err := a.container.Delete(ctx, t.ID); err != nil {
		return fmt.Errorf("%s", api.Message(err))
	}
	fmt.Println("Task deleted.")
	return nil
}

// resolveTask fetches the task list and matches the argument against full ids
// first, then unique prefixes, so `tasq tasks done 3f2a` works.
func (a *app) resolveTask(ctx context.Context, id string) (api.Task, error) {
	if err := a.container.FetchAll(ctx); err != nil {
		return api.Task{}, fmt.Errorf("%s", api.Message(err))
	}

	var match *api.Task
	for _, t := range a.container.State().Tasks {
		if t.ID == id {
			return t, nil
		}
		if strings.HasPrefix(t.ID, id) {
			if match != nil {
				return api.Task{}, fmt.Errorf("task id %q is ambiguous", id)
			}
			match = &t
		}
	}
	if match == nil {
		return api.Task{}, fmt.Errorf("no task with id %q", id)
	}
	return *match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
