package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/nesso/internal/project"
)

// NewModelCommand creates the model command group.
func NewModelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Work with dbt models",
	}
	cmd.AddCommand(newModelBootstrapCommand())
	return cmd
}

func newModelBootstrapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap <model> <mart> <project>",
		Short: "Create an empty model SQL file in a mart project",
		Long: `Create models/marts/<mart>/<project>/<model>/<model>.sql as an empty file.

An existing file is left untouched. Once the model is developed and
materialized, document it in a property file next to the SQL.`,
		Example: `  nesso model bootstrap c4c_example sales cloud_for_customer`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				if err := checkPathSegment(a); err != nil {
					return err
				}
			}

			cc := NewCommandContext(cmd)
			dir, ok, err := cc.resolveProject(cmd, "")
			if err != nil || !ok {
				return err
			}

			path, created, err := bootstrapModel(dir, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			if created {
				cc.Renderer.Success(fmt.Sprintf("File %s has been created successfully.", relPath(dir, path)))
			} else {
				cc.Renderer.Muted(fmt.Sprintf("File %s already exists.", relPath(dir, path)))
			}
			return nil
		},
	}
}

// bootstrapModel creates the empty model file. created is false when the
// file already existed.
func bootstrapModel(dir project.Directory, model, mart, proj string) (path string, created bool, err error) {
	modelDir := dir.Join("models", "marts", mart, proj, model)
	if err := os.MkdirAll(modelDir, 0750); err != nil {
		return "", false, fmt.Errorf("failed to create directory %s: %w", modelDir, err)
	}

	path = filepath.Join(modelDir, model+".sql")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if errors.Is(err, fs.ErrExist) {
		return path, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return path, true, f.Close()
}

// checkPathSegment rejects names that would escape the mart directory.
func checkPathSegment(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid name %q", name)
	}
	return nil
}
