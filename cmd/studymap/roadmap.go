package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/studymap/internal/diagram"
	"github.com/dgallion1/studymap/internal/roadmap"
)

func roadmapCmd() *cobra.Command {
	var format, direction string
	cmd := &cobra.Command{
		Use:   "roadmap <topic>",
		Short: "Generate a roadmap and print it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			defer a.close()

			tree, err := a.gateway.Roadmap(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return writeRoadmap(cmd.OutOrStdout(), tree, format, direction)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json, yaml, mermaid, svg")
	cmd.Flags().StringVar(&direction, "direction", "LR", "mermaid graph direction")
	return cmd
}

func writeRoadmap(w io.Writer, tree roadmap.Tree, format, direction string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(tree)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return err
		}
		return enc.Close()
	case "mermaid":
		_, err := io.WriteString(w, diagram.Mermaid(diagram.Build(tree), direction))
		return err
	case "svg":
		return diagram.WriteSVG(w, diagram.Build(tree))
	default:
		return fmt.Errorf("unsupported roadmap format %q", format)
	}
}
