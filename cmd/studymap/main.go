// Command studymap serves and drives exam study roadmaps: a JSON API, a
// terminal client and one-shot roadmap/notes generation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "studymap",
		Short:         "Generate exam study roadmaps, resources and notes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a .yaml or .toml config file")

	root.AddCommand(serveCmd())
	root.AddCommand(tuiCmd())
	root.AddCommand(roadmapCmd())
	root.AddCommand(notesCmd())
	return root
}
