// Package cli implements the dolist command line tool.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezkam/dolist/internal/clock"
)

// rootOptions carries persistent flags shared by every subcommand.
type rootOptions struct {
	storage  string
	dbPath   string
	dataDir  string
	settings string
	verbose  bool

	// clock overrides the system clock in tests.
	clock clock.Clock
}

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(version, &rootOptions{})
}

func newRootCommand(version string, opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "dolist",
		Short: "dolist - deadline task tracker",
		Long: `dolist tracks tasks that each carry a deadline.

Tasks that are not important get a reminder when their deadline comes due and
are completed automatically once it passes. Important tasks are colored from
the selected palette and never expire on their own.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.storage, "storage", "", "storage backend: sqlite, postgres, fs, gcs (default from DOLIST_STORAGE_TYPE)")
	flags.StringVar(&opts.dbPath, "db", "", "sqlite database path (default from DOLIST_SQLITE_PATH)")
	flags.StringVar(&opts.dataDir, "dir", "", "task directory for the fs backend (default from DOLIST_FS_DIR)")
	flags.StringVar(&opts.settings, "settings", "", "appearance settings file (default from DOLIST_SETTINGS_FILE)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
		newStarCmd(opts),
		newDoneCmd(opts),
		newRestoreCmd(opts),
		newRemoveCmd(opts),
		newClearCmd(opts),
		newWatchCmd(opts),
		newSettingsCmd(opts),
		newAPIKeyCmd(),
	)

	return root
}

// Execute runs the root command.
func Execute(version string) error {
	return execute(NewRootCommand(version), os.Stderr)
}

func execute(root *cobra.Command, stderr io.Writer) error {
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return err
	}
	return nil
}
