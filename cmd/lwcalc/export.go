package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/napolitain/lastwar-buildtime/internal/loader"
)

func newExportCmd(a *app) *cobra.Command {
	var outFormat string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the loaded catalog as JSON or YAML",
		Long: `Print the loaded catalog in the document format accepted by --data,
so the built-in data can be copied and edited.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExport(outFormat)
		},
	}
	cmd.Flags().StringVarP(&outFormat, "format", "f", "yaml", "Output format: yaml or json")
	return cmd
}

func (a *app) runExport(outFormat string) error {
	doc := loader.FromCatalog(a.catalog)

	switch outFormat {
	case "yaml", "yml":
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(doc)
	}
	return fmt.Errorf("unknown format %q (want yaml or json)", outFormat)
}
