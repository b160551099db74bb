package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/sagadocs/internal/render"
	"github.com/dgallion1/sagadocs/internal/sagatree"
)

func newInspectCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <file.md>",
		Short: "Parse a generated document back into its saga tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			mains, err := render.ReadMarkdown(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			return writeTree(cmd.OutOrStdout(), mains, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, yaml or json")
	return cmd
}

func writeTree(w io.Writer, mains []*sagatree.MainSaga, format string) error {
	switch format {
	case "text":
		return sagatree.PrintTree(w, mains)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(mains); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(mains)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
