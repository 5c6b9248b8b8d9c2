package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/nesso/internal/metadata"
)

// NewSeedCommand creates the seed command group.
func NewSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Work with dbt seeds",
	}
	cmd.AddCommand(newSeedExistsCommand())
	return cmd
}

func newSeedExistsCommand() *cobra.Command {
	var schemaFile string

	cmd := &cobra.Command{
		Use:   "exists <seed>",
		Short: "Check whether a seed is registered in the seeds property file",
		Long: `Check whether a seed is documented in the seeds property file
(seeds/master_data/schema.yml by default). Seed names are matched
case-insensitively.`,
		Example: `  nesso seed exists countries
  nesso seed exists countries --schema-file seeds/reference/schema.yml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			dir, ok, err := cc.resolveProject(cmd, "")
			if err != nil || !ok {
				return err
			}

			path := metadata.DefaultSeedFile(dir)
			if schemaFile != "" {
				path = schemaFile
				if !filepath.IsAbs(path) {
					path = dir.Join(path)
				}
			}

			exists, err := metadata.SeedRegistered(path, args[0])
			if err != nil {
				return err
			}
			return renderExists(cc.Renderer, "Seed", existsResult{
				Name:   args[0],
				File:   relPath(dir, path),
				Exists: exists,
			})
		},
	}

	cmd.Flags().StringVar(&schemaFile, "schema-file", "", "Seeds property file, relative to the project (default seeds/master_data/schema.yml)")

	return cmd
}
