package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dgallion1/studymap/internal/tui"
)

func tuiCmd() *cobra.Command {
	var logFile, format string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse a roadmap in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Logs must not share the screen with Bubble Tea.
			var logOut io.Writer
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			a, err := newApp(logOut)
			if err != nil {
				return err
			}
			defer a.close()

			model := tui.NewModel(a.gateway, a.loader, tui.Options{
				Exam:      a.gateway.Exam().Short,
				OutputDir: a.cfg.OutputDir,
				Format:    format,
				Context:   cmd.Context(),
				Log:       a.log,
			})
			prog := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := prog.Run(); err != nil {
				return fmt.Errorf("running TUI: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file (default: discard)")
	cmd.Flags().StringVar(&format, "format", "pdf", "notes document format: pdf or docx")
	return cmd
}
