package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/studymap/internal/compose"
)

func notesCmd() *cobra.Command {
	var format, outDir string
	cmd := &cobra.Command{
		Use:   "notes <topic>",
		Short: "Generate study notes and write them as a document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			defer a.close()

			renderer, err := compose.ForFormat(format)
			if err != nil {
				return err
			}
			topic := strings.Join(args, " ")
			notes, err := a.gateway.Notes(cmd.Context(), topic)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = a.cfg.OutputDir
			}
			path, err := writeNotes(outDir, notes, topic, a.gateway.Exam().Short, time.Now(), renderer)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "pdf", "document format: pdf or docx")
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "output directory (default OUTPUT_DIR)")
	return cmd
}

func writeNotes(dir, notes, topic, exam string, now time.Time, r compose.Renderer) (string, error) {
	doc := compose.Compose(notes, topic, now, compose.Options{Exam: exam})
	var buf bytes.Buffer
	if err := r.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("render %s: %w", r.Format(), err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, compose.Filename(topic, exam, now, r.Extension()))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
