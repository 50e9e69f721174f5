package main

import (
	"github.com/Veraticus/fintrack/internal/tui"
	"github.com/Veraticus/fintrack/internal/tui/themes"
	"github.com/spf13/cobra"
)

func uiCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui [path]",
		Short: "Open the terminal UI",
		Long: `Open the interactive terminal UI at path (default /entries).

Paths: /categories, /categories/new, /categories/<id>/edit,
       /entries, /entries/new, /entries/<id>/edit

Logs are written to logging.file while the UI is open.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{logToFile: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := tui.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}

			categories, entries, err := s.services()
			if err != nil {
				return err
			}

			app := tui.New(cmd.Context(), tui.Services{Categories: categories, Entries: entries}, path,
				tui.WithTheme(themes.GetTheme(s.cfg.UI.Theme)),
				tui.WithPrinter(s.printer()),
				tui.WithLogger(s.logger),
			)
			return tui.Run(cmd.Context(), app)
		},
	}

	cmd.Flags().String("theme", "", "color theme (default, catppuccin-mocha)")
	_ = s.v.BindPFlag("ui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}
