package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezkam/dolist/internal/domain"
	"github.com/rezkam/dolist/internal/settings"
)

func openSettings(opts *rootOptions) (*settings.File, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	configureLogging(opts, cfg)
	return settings.NewFile(cfg.SettingsFile), nil
}

func printAppearance(w io.Writer, a settings.Appearance) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Color group:\t%s\n", a.ColorGroup)
	rgb, _ := domain.ColorRGB(a.ImportantColor)
	fmt.Fprintf(tw, "Important color:\t%s %s\n", a.ImportantColor, rgb.Hex())
	fmt.Fprintf(tw, "Buttons:\t%s (%s)\n", a.ButtonScheme, a.ButtonScheme.Description())
	return tw.Flush()
}

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change appearance settings",
	}
	cmd.AddCommand(newSettingsShowCmd(opts), newSettingsSetCmd(opts), newSettingsPalettesCmd())
	return cmd
}

func newSettingsShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current appearance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := openSettings(opts)
			if err != nil {
				return err
			}
			a, err := file.Load()
			if err != nil {
				return err
			}
			return printAppearance(cmd.OutOrStdout(), a)
		},
	}
}

func newSettingsSetCmd(opts *rootOptions) *cobra.Command {
	var group, important, buttons string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the appearance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := openSettings(opts)
			if err != nil {
				return err
			}
			a, err := file.Load()
			if err != nil {
				return err
			}

			if group != "" {
				a.ColorGroup = domain.ColorGroup(group)
			}
			if important != "" {
				a.ImportantColor = domain.TaskColor(important)
			}
			if buttons != "" {
				a.ButtonScheme = domain.ButtonScheme(buttons)
			}

			if err := file.Save(a); err != nil {
				return err
			}
			return printAppearance(cmd.OutOrStdout(), a)
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "color group used for important tasks")
	cmd.Flags().StringVar(&important, "important-color", "", "accent color of important tasks")
	cmd.Flags().StringVar(&buttons, "buttons", "", "button color scheme")
	return cmd
}

func newSettingsPalettesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "palettes",
		Short: "List color groups and button schemes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "GROUP\tCOLORS")
			for _, g := range domain.ColorGroups() {
				names := make([]string, 0)
				for _, c := range domain.PaletteFor(g).Colors() {
					names = append(names, string(c))
				}
				fmt.Fprintf(tw, "%s\t%s\n", g, strings.Join(names, ", "))
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "BUTTONS\tDESCRIPTION")
			for _, b := range domain.ButtonSchemes() {
				fmt.Fprintf(tw, "%s\t%s\n", b, b.Description())
			}
			return tw.Flush()
		},
	}
}
