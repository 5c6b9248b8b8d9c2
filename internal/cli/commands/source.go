package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/nesso/internal/cli/output"
	"github.com/leapstack-labs/nesso/internal/metadata"
)

// NewSourceCommand creates the source command group.
func NewSourceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source",
		Short: "Work with dbt sources",
	}
	cmd.AddCommand(newSourceExistsCommand())
	return cmd
}

// existsResult is the JSON form of the exists commands.
type existsResult struct {
	Name   string `json:"name"`
	File   string `json:"file"`
	Exists bool   `json:"exists"`
}

func newSourceExistsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <source> [table]",
		Short: "Check whether a source or source table is registered",
		Long: `Check whether a source schema, or one of its tables, is documented in
models/sources/<source>/<source>.yml.`,
		Example: `  nesso source exists crm
  nesso source exists crm contacts`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			dir, ok, err := cc.resolveProject(cmd, "")
			if err != nil || !ok {
				return err
			}

			source := args[0]
			res := existsResult{
				Name: source,
				File: relPath(dir, metadata.SourceFile(dir, source)),
			}
			if len(args) == 1 {
				res.Exists = metadata.SourceExists(dir, source)
			} else {
				res.Name = source + "." + args[1]
				res.Exists, err = metadata.SourceTableExists(dir, source, args[1])
				if err != nil {
					return err
				}
			}
			return renderExists(cc.Renderer, "Source", res)
		},
	}
}

func renderExists(r *output.Renderer, what string, res existsResult) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(res)
	}
	if res.Exists {
		r.StatusLine(fmt.Sprintf("%s %s is registered", what, res.Name), "success", "("+res.File+")")
		return nil
	}
	r.StatusLine(fmt.Sprintf("%s %s is not registered", what, res.Name), "skipped", "("+res.File+")")
	return nil
}
