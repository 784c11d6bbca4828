package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezkam/dolist/internal/application/task"
	"github.com/rezkam/dolist/internal/domain"
	"github.com/rezkam/dolist/internal/reminder"
)

// withApp opens the task core for one command and closes it afterwards.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx, opts, reminder.LogSink{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	return fn(ctx, a)
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var (
		due       string
		important bool
	)

	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task",
		Long: `Add a task with a deadline.

The deadline is an RFC 3339 timestamp or a duration from now such as 90m or 3h.
Without --due the task is due in 24 hours.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				title, err := domain.NewTitle(strings.Join(args, " "))
				if err != nil {
					return err
				}
				dueAt, err := domain.NewDueDate(due, a.clock.Now())
				if err != nil {
					return err
				}

				t, err := a.tasks.Create(ctx, task.CreateParams{
					Title:     title.String(),
					Important: important,
					DueAt:     dueAt,
				})
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s left)\n", t.ID, t.FormattedTimeClamped(a.clock.Now()))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&due, "due", "d", "", "deadline as RFC 3339 or a duration from now")
	cmd.Flags().BoolVarP(&important, "important", "i", false, "mark the task important")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		view   string
		search string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, important first then by deadline",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := domain.NewView(view)
			if err != nil {
				return err
			}

			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.refresh(ctx); err != nil {
					return err
				}

				tasks, err := a.tasks.List(ctx, task.ListParams{View: v, Search: search})
				if err != nil {
					return err
				}
				return printTasks(cmd.OutOrStdout(), tasks, a.tasks.Palette(), a.clock.Now())
			})
		},
	}

	cmd.Flags().StringVar(&view, "view", "active", "active, completed or all")
	cmd.Flags().StringVarP(&search, "search", "q", "", "case-insensitive title filter")
	return cmd
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.refresh(ctx); err != nil {
					return err
				}

				id, err := a.resolveID(ctx, args[0])
				if err != nil {
					return err
				}
				t, err := a.tasks.Get(ctx, id)
				if err != nil {
					return err
				}
				return printTask(cmd.OutOrStdout(), t, a.tasks.Palette(), a.clock.Now())
			})
		},
	}
}

// newTransitionCmd builds a command applying one intent to one task.
func newTransitionCmd(opts *rootOptions, use, short, verb string, apply func(s *task.Service, ctx context.Context, id string) (*domain.Task, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				id, err := a.resolveID(ctx, args[0])
				if err != nil {
					return err
				}
				t, err := apply(a.tasks, ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s [%s]\n", verb, t.ID, stateLabel(t, a.clock.Now()))
				return nil
			})
		},
	}
}

func newStarCmd(opts *rootOptions) *cobra.Command {
	return newTransitionCmd(opts, "star", "Mark a task important, or cycle its color", "Starred", (*task.Service).ToggleImportant)
}

func newDoneCmd(opts *rootOptions) *cobra.Command {
	return newTransitionCmd(opts, "done", "Complete a task", "Completed", (*task.Service).Complete)
}

func newRestoreCmd(opts *rootOptions) *cobra.Command {
	return newTransitionCmd(opts, "restore", "Reopen a completed task", "Restored", (*task.Service).Restore)
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				id, err := a.resolveID(ctx, args[0])
				if err != nil {
					return err
				}
				if err := a.tasks.Delete(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
				return nil
			})
		},
	}
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				n, err := a.tasks.ClearCompleted(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d completed task(s)\n", n)
				return nil
			})
		},
	}
}
