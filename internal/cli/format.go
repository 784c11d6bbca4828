package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rezkam/dolist/internal/domain"
)

const dueLayout = "Mon Jan 2 15:04"

func stateLabel(t *domain.Task, now time.Time) string {
	if t.IsLate(now) {
		return string(t.State()) + " (late)"
	}
	return string(t.State())
}

func colorLabel(t *domain.Task, palette domain.Palette) string {
	if !t.Important {
		return "-"
	}
	name, rgb := palette.ColorAt(t.ImportantColorIndex)
	return fmt.Sprintf("%s %s", name, rgb.Hex())
}

// printTasks writes an aligned table of tasks.
func printTasks(w io.Writer, tasks []*domain.Task, palette domain.Palette, now time.Time) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tLEFT\tDUE\tCOLOR\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID,
			stateLabel(t, now),
			t.FormattedTimeClamped(now),
			t.ExpirationDate.Local().Format(dueLayout),
			colorLabel(t, palette),
			t.Title)
	}
	return tw.Flush()
}

// printTask writes every field of one task.
func printTask(w io.Writer, t *domain.Task, palette domain.Palette, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", t.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", t.Title)
	fmt.Fprintf(tw, "State:\t%s\n", stateLabel(t, now))
	fmt.Fprintf(tw, "Due:\t%s\n", t.ExpirationDate.Local().Format(time.RFC3339))
	fmt.Fprintf(tw, "Left:\t%s\n", t.FormattedTimeClamped(now))
	fmt.Fprintf(tw, "Color:\t%s\n", colorLabel(t, palette))
	if t.CompletedAt != nil {
		fmt.Fprintf(tw, "Completed:\t%s\n", t.CompletedAt.Local().Format(time.RFC3339))
	}
	if t.ReminderID != "" {
		fmt.Fprintf(tw, "Reminder:\t%s\n", t.ReminderID)
	}
	return tw.Flush()
}
